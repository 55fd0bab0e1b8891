package providers

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/container"
	"github.com/km-arc/userform/framework/http/validation"
)

// ValidationServiceProvider compiles the form schema during boot, so a
// malformed declaration stops the application before it serves a request.
//
// The schema is read from FORM_SCHEMA_FILE when set and built from Fields
// otherwise. The file is read once. Relative date bounds ("yesterday") are
// resolved against Now, and the schema is rebuilt on the first request of
// each new UTC day so those bounds keep moving.
//
// Bound abstracts:
//   - "validation.schema" → validation.Source
type ValidationServiceProvider struct {
	container.BaseProvider
	Fields func(now time.Time) []validation.Field
	FS     fs.FS            // where FORM_SCHEMA_FILE is opened, default: the OS filesystem
	Now    func() time.Time // default: time.Now
}

func (p *ValidationServiceProvider) Register(app *container.Container) {}

func (p *ValidationServiceProvider) Boot(app *container.Container) error {
	cfg := container.Resolve[*config.Config](app, "config")
	logger := container.Resolve[*slog.Logger](app, "logger")

	build, source, err := p.builder(cfg.Form.SchemaFile)
	if err != nil {
		return err
	}

	schemas, err := validation.Daily(build, p.Now, func(err error) {
		logger.Error("form schema rebuild failed",
			slog.String("source", source),
			slog.Any("error", err),
		)
	})
	if err != nil {
		return err
	}

	logger.Info("form schema loaded",
		slog.String("source", source),
		slog.Int("fields", len(schemas.Schema().Fields())),
	)
	app.Instance("validation.schema", validation.Source(schemas))
	return nil
}

type schemaBuilder func(now time.Time) (*validation.Schema, error)

func (p *ValidationServiceProvider) builder(file string) (schemaBuilder, string, error) {
	if file == "" {
		if p.Fields == nil {
			return nil, "", errors.New("no FORM_SCHEMA_FILE configured and no built-in form fields")
		}
		return func(now time.Time) (*validation.Schema, error) {
			return validation.Build(p.Fields(now)...)
		}, "built-in", nil
	}

	var (
		data []byte
		err  error
	)
	if p.FS != nil {
		data, err = fs.ReadFile(p.FS, file)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, file, fmt.Errorf("open form schema: %w", err)
	}

	return func(now time.Time) (*validation.Schema, error) {
		schema, err := validation.LoadSchema(bytes.NewReader(data), now)
		if err != nil {
			return nil, fmt.Errorf("load form schema %s: %w", file, err)
		}
		return schema, nil
	}, file, nil
}
