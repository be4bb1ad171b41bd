package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// ErrInterrupted is returned when a console interview is stopped by a signal.
var ErrInterrupted = errors.New("interview interrupted")

// Console drives one interview over an IOHandler: ask, read, submit, repeat,
// then present the summary.
type Console struct {
	Interviewer *Interviewer
	Handler     IOHandler
	Logger      *slog.Logger

	// Signals disables OS signal handling when false (tests, embedding).
	Signals bool
}

// NewConsole creates a Console using a TextHandler over stdin/stdout unless
// configured otherwise.
func NewConsole(interviewer *Interviewer, opts ...Option) *Console {
	c := &Console{
		Interviewer: interviewer,
		Logger:      logging.NewNop(),
		Signals:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Handler == nil {
		c.Handler = NewTextHandler(nil, nil)
	}
	return c
}

// Run starts a new interview for record and drives it to completion.
// Typing "exit" or "quit" stops early and returns the session id with a nil
// summary so the interview can be resumed.
func (c *Console) Run(ctx context.Context, record domain.PatientRecord, complaint string) (string, *Summary, error) {
	s, err := c.Interviewer.Begin(ctx, record, complaint)
	if err != nil {
		return "", nil, err
	}
	if _, err := c.Interviewer.Catalog().Graph(complaint); err != nil {
		_ = c.Handler.SystemOutput(ctx, fmt.Sprintf("No question set for %q; using the %s questions.", complaint, s.ComplaintID))
	}
	summary, err := c.Resume(ctx, s.ID)
	return s.ID, summary, err
}

// Resume continues an existing interview.
func (c *Console) Resume(ctx context.Context, sessionID string) (*Summary, error) {
	signals := c.signals(ctx)
	defer signals.Stop()

	for {
		loopCtx := signals.Context()

		s, q, err := c.Interviewer.Current(loopCtx, sessionID)
		if err != nil {
			return nil, err
		}
		if q == nil {
			summary, err := c.Interviewer.Summary(loopCtx, sessionID)
			if err != nil {
				return nil, err
			}
			if err := c.Handler.Summary(loopCtx, summary); err != nil {
				return nil, fmt.Errorf("output error: %w", err)
			}
			return summary, nil
		}

		if err := c.Handler.Ask(loopCtx, NewPrompt(s, q, c.Interviewer.Progress(s))); err != nil {
			return nil, fmt.Errorf("output error: %w", err)
		}

		val, err := c.Handler.Input(loopCtx)
		if err != nil {
			signals.CheckRace()
			if loopCtx.Err() != nil {
				c.Logger.Debug("console input cancelled", "session_id", sessionID, "err", loopCtx.Err())
				return nil, ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(val) {
		case "exit", "quit":
			_ = c.Handler.SystemOutput(loopCtx, "Interview saved. Resume with session "+sessionID+".")
			return nil, nil
		}

		if _, err := c.Interviewer.Submit(loopCtx, sessionID, val); err != nil {
			var answerErr *domain.AnswerError
			if errors.As(err, &answerErr) || errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				_ = c.Handler.SystemOutput(loopCtx, err.Error())
				continue
			}
			return nil, err
		}
	}
}

type noSignals struct{ ctx context.Context }

func (c *Console) signals(ctx context.Context) interface {
	Context() context.Context
	CheckRace()
	Stop()
} {
	if !c.Signals {
		return noSignals{ctx}
	}
	return watchInterrupts(ctx)
}

func (n noSignals) Context() context.Context { return n.ctx }
func (noSignals) CheckRace()                 {}
func (noSignals) Stop()                      {}
