package validation

import (
	"sync"
	"time"
)

// Source hands out the schema currently in force. Handlers call Schema once
// per request and use that schema for the whole pass.
type Source interface {
	Schema() *Schema
}

type staticSource struct{ schema *Schema }

// Static returns a Source that always yields s.
func Static(s *Schema) Source { return staticSource{schema: s} }

func (s staticSource) Schema() *Schema { return s.schema }

// DailySource rebuilds its schema the first time it is asked for one on a
// new UTC calendar day, so relative date bounds such as "yesterday" follow
// the clock in long-running processes. Each built schema stays immutable.
type DailySource struct {
	build   func(now time.Time) (*Schema, error)
	now     func() time.Time
	onError func(error)

	mu     sync.Mutex
	day    string
	schema *Schema
}

// Daily builds the first schema immediately and returns its error, if any.
// A later failed rebuild is reported to onError (which may be nil) and the
// previous schema stays in force until the next day.
func Daily(build func(now time.Time) (*Schema, error), now func() time.Time, onError func(error)) (*DailySource, error) {
	if now == nil {
		now = time.Now
	}
	t := now()
	s, err := build(t)
	if err != nil {
		return nil, err
	}
	return &DailySource{
		build:   build,
		now:     now,
		onError: onError,
		day:     dayOf(t),
		schema:  s,
	}, nil
}

// Schema returns the schema for today, rebuilding it on a day change.
func (d *DailySource) Schema() *Schema {
	t := d.now()
	day := dayOf(t)

	d.mu.Lock()
	defer d.mu.Unlock()
	if day == d.day {
		return d.schema
	}
	d.day = day
	s, err := d.build(t)
	if err != nil {
		if d.onError != nil {
			d.onError(err)
		}
		return d.schema
	}
	d.schema = s
	return s
}

func dayOf(t time.Time) string { return t.UTC().Format(time.DateOnly) }
