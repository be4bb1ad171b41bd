package ports

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// InterviewEngine is the stateless interview core used by adapters that
// manage sessions externally (HTTP, MCP, console).
type InterviewEngine interface {
	// Start moves a not-started session to its graph's initial question.
	Start(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph) (*domain.Session, error)

	// Answer records value for the current question and advances the cursor.
	Answer(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph, value any) (*domain.Session, error)

	// AnswerQuestion edits the answer of an already visited question
	// without moving the cursor.
	AnswerQuestion(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph, questionID string, value any) (*domain.Session, error)

	// Progress estimates completion as a percentage.
	Progress(graph *domain.ComplaintGraph, session *domain.Session) int
}
