package forms

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/km-arc/userform/framework/http/validation"
)

// Submission is a user data record that passed validation.
type Submission struct {
	ID         uuid.UUID `json:"id"`
	Form       string    `json:"form"`
	ReceivedAt time.Time `json:"receivedAt"`
	Data       UserData  `json:"data"`
}

// NewSubmission decodes values into a Submission stamped with a fresh ID.
// Callers validate values first.
func NewSubmission(values validation.Values, receivedAt time.Time) (Submission, error) {
	data, err := Decode(values)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		ID:         uuid.New(),
		Form:       UserDataForm,
		ReceivedAt: receivedAt.UTC(),
		Data:       data,
	}, nil
}

// Submitter receives validated submissions.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error { return f(ctx, s) }

// LogSubmitter records each submission in the application log and keeps
// nothing else.
type LogSubmitter struct {
	logger *slog.Logger
}

// NewLogSubmitter creates a LogSubmitter writing to logger.
func NewLogSubmitter(logger *slog.Logger) *LogSubmitter {
	return &LogSubmitter{logger: logger}
}

func (s *LogSubmitter) Submit(ctx context.Context, sub Submission) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "form submitted",
		slog.String("id", sub.ID.String()),
		slog.String("form", sub.Form),
		slog.Time("received_at", sub.ReceivedAt),
		slog.Any("data", sub.Data),
	)
	return nil
}
