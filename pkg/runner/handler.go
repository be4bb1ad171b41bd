package runner

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Prompt is a question presented to the user.
type Prompt struct {
	SessionID  string              `json:"session_id"`
	QuestionID string              `json:"question_id"`
	Text       string              `json:"text"`
	Type       domain.QuestionType `json:"type"`
	Choices    []string            `json:"choices,omitempty"`
	Progress   int                 `json:"progress"`
}

// NewPrompt builds the prompt for question q.
func NewPrompt(s *domain.Session, q *domain.Question, progress int) Prompt {
	return Prompt{
		SessionID:  s.ID,
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Choices:    q.Choices(),
		Progress:   progress,
	}
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Ask presents a question.
	Ask(ctx context.Context, prompt Prompt) error

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (validation errors, status updates).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error

	// Summary presents the finished narrative.
	Summary(ctx context.Context, summary *Summary) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
