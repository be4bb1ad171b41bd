package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/presentation/tui"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
)

// InterviewOptions configures one console interview.
type InterviewOptions struct {
	Patient   domain.PatientRecord
	Complaint string

	// SessionID resumes an existing interview instead of starting one.
	SessionID string

	// JSON switches to NDJSON prompts and answers.
	JSON bool

	// Rich enables the banner, markdown rendering and coloured alerts.
	Rich bool

	// Signals enables SIGINT/SIGTERM handling while waiting for input.
	Signals bool

	In  io.Reader
	Out io.Writer
}

// RunInterview drives an interview on the console until it finishes, the
// clinician quits or input ends. A nil summary means the interview was left
// unfinished and can be resumed.
func RunInterview(ctx context.Context, app *App, opts InterviewOptions) (*runner.Summary, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, out)
	} else {
		var textOpts []runner.TextHandlerOption
		if opts.Rich {
			tui.PrintBanner(out)
			textOpts = append(textOpts,
				runner.WithTextHandlerRenderer(tui.NewRenderer(terminalWidth(os.Stdout))),
				runner.WithTextHandlerAlert(tui.Alert),
			)
		}
		handler = runner.NewTextHandler(opts.In, out, textOpts...)
	}

	console := runner.NewConsole(app.Interviewer,
		runner.WithInputHandler(handler),
		runner.WithLogger(app.Logger),
		runner.WithSignals(opts.Signals),
	)

	if opts.SessionID != "" {
		sum, err := console.Resume(ctx, opts.SessionID)
		return sum, handleExecutionError(err)
	}

	if opts.Complaint == "" {
		opts.Complaint = opts.Patient.ChiefComplaint
	}
	if opts.Complaint == "" {
		return nil, errors.New("a chief complaint is required")
	}
	if err := opts.Patient.Validate(); err != nil {
		return nil, err
	}

	id, sum, err := console.Run(ctx, opts.Patient, opts.Complaint)
	if err == nil && sum == nil && id != "" && !opts.JSON {
		printSystemMessage(out, "Resume later with --session %s", id)
	}
	return sum, handleExecutionError(err)
}

// handleExecutionError treats an interrupt as a clean stop.
func handleExecutionError(err error) error {
	if errors.Is(err, runner.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("interview failed: %w", err)
	}
	return nil
}
