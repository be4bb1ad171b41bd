// Package interview implements the question graph engine: it starts an
// interview at a complaint graph's initial question, records answers and
// resolves the next question one step at a time.
//
// The engine is stateless. Every operation takes a session snapshot and
// returns a new one; the input snapshot is never mutated.
package interview

import (
	"context"
	"log/slog"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Engine is the core interview state machine.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start moves a not-started session to the graph's initial question and
// records the graph's display name as the chief complaint unless one is
// already set. Starting a session that already started returns it unchanged.
func (e *Engine) Start(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph) (*domain.Session, error) {
	if session.Status != domain.StatusNotStarted && session.Status != "" {
		e.logger.Debug("resuming interview", "session_id", session.ID, "question", session.CurrentQuestionID)
		return session.Clone(), nil
	}

	initial, err := graph.Initial()
	if err != nil {
		return nil, err
	}

	next := session.Clone()
	next.ComplaintID = graph.ID
	next.Status = domain.StatusAwaitingAnswer
	next.CurrentQuestionID = initial.ID
	next.History = append(next.History, initial.ID)
	if next.Record.ChiefComplaint == "" {
		next.Record.ChiefComplaint = graph.Name
	}
	e.touch(next)

	e.logger.Debug("interview started", "session_id", next.ID, "complaint", graph.ID, "question", initial.ID)
	e.emit(ctx, e.hooks.OnStart, &domain.InterviewEvent{
		Type:        domain.EventInterviewStarted,
		SessionID:   next.ID,
		ComplaintID: graph.ID,
		QuestionID:  initial.ID,
	})
	return next, nil
}

// Answer records value for the current question and moves to the next one.
//
// The value is normalized by question type first; an invalid value returns an
// *domain.AnswerError and leaves the session untouched. The transition taken
// is the list keyed by the stringified value, else the "default" list. Only
// the first id of that list is followed. An empty list finishes the interview.
func (e *Engine) Answer(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph, value any) (*domain.Session, error) {
	switch session.Status {
	case domain.StatusDone:
		return nil, domain.ErrInterviewDone
	case domain.StatusAwaitingAnswer:
	default:
		return nil, domain.ErrInterviewNotStarted
	}

	q, ok := graph.Question(session.CurrentQuestionID)
	if !ok {
		return nil, &domain.GraphIntegrityError{
			ComplaintID: graph.ID,
			QuestionID:  session.CurrentQuestionID,
			Reason:      "current question is not defined",
		}
	}

	normalized, err := Normalize(q, value)
	if err != nil {
		return nil, err
	}
	text := domain.FormatAnswer(normalized)

	nextID, hasNext := q.NextQuestionID(text)
	if hasNext {
		if _, ok := graph.Question(nextID); !ok {
			return nil, &domain.GraphIntegrityError{
				ComplaintID: graph.ID,
				QuestionID:  nextID,
				Reason:      "transition from " + q.ID + " targets an undefined question",
			}
		}
	}

	next := session.Clone()
	e.record(next, q, normalized)
	if hasNext {
		next.CurrentQuestionID = nextID
		next.History = append(next.History, nextID)
	} else {
		next.CurrentQuestionID = ""
		next.Status = domain.StatusDone
	}
	e.touch(next)

	e.logger.Debug("question answered", "session_id", next.ID, "question", q.ID, "next", nextID, "done", !hasNext)
	e.emitAnswer(ctx, next, graph, q, text)
	if !hasNext {
		e.emit(ctx, e.hooks.OnComplete, &domain.InterviewEvent{
			Type:        domain.EventInterviewCompleted,
			SessionID:   next.ID,
			ComplaintID: graph.ID,
		})
	}
	return next, nil
}

// AnswerQuestion edits the answer of a question already shown in this
// session. The cursor does not move, except when questionID is the current
// question, which behaves exactly like Answer.
func (e *Engine) AnswerQuestion(ctx context.Context, session *domain.Session, graph *domain.ComplaintGraph, questionID string, value any) (*domain.Session, error) {
	if session.Status == domain.StatusNotStarted || session.Status == "" {
		return nil, domain.ErrInterviewNotStarted
	}
	if session.Status == domain.StatusAwaitingAnswer && questionID == session.CurrentQuestionID {
		return e.Answer(ctx, session, graph, value)
	}

	q, ok := graph.Question(questionID)
	if !ok {
		return nil, &domain.GraphIntegrityError{
			ComplaintID: graph.ID,
			QuestionID:  questionID,
			Reason:      "question is not defined",
		}
	}
	if !session.Record.Answers.Has(questionID) {
		return nil, &domain.AnswerError{
			QuestionID: questionID,
			Type:       q.Type,
			Value:      domain.FormatAnswer(value),
			Reason:     "question has not been answered in this session",
		}
	}

	normalized, err := Normalize(q, value)
	if err != nil {
		return nil, err
	}

	next := session.Clone()
	e.record(next, q, normalized)
	e.touch(next)

	text := domain.FormatAnswer(normalized)
	e.logger.Debug("answer edited", "session_id", next.ID, "question", q.ID)
	e.emitAnswer(ctx, next, graph, q, text)
	return next, nil
}

// Progress estimates completion of session as a percentage.
func (e *Engine) Progress(graph *domain.ComplaintGraph, session *domain.Session) int {
	return Progress(graph, session.Record.Answers.Len(), session.Done())
}

func (e *Engine) record(s *domain.Session, q *domain.Question, value any) {
	s.Record.Answers.Set(q.ID, value)
	// The cached summary no longer reflects the answers.
	s.Record.Summary = ""
}

func (e *Engine) touch(s *domain.Session) {
	now := e.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

func (e *Engine) emitAnswer(ctx context.Context, s *domain.Session, graph *domain.ComplaintGraph, q *domain.Question, text string) {
	e.emit(ctx, e.hooks.OnAnswer, &domain.InterviewEvent{
		Type:        domain.EventQuestionAnswered,
		SessionID:   s.ID,
		ComplaintID: graph.ID,
		QuestionID:  q.ID,
		Value:       text,
	})
	if !q.RaisesRedFlag(text) {
		return
	}
	note := q.ID
	if q.RedFlag != nil {
		note = q.RedFlag.Note
	}
	e.logger.Info("red flag raised", "session_id", s.ID, "question", q.ID)
	e.emit(ctx, e.hooks.OnRedFlag, &domain.InterviewEvent{
		Type:        domain.EventRedFlagRaised,
		SessionID:   s.ID,
		ComplaintID: graph.ID,
		QuestionID:  q.ID,
		Value:       text,
		Note:        note,
	})
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.InterviewEvent), ev *domain.InterviewEvent) {
	if hook == nil {
		return
	}
	ev.Timestamp = e.now()
	hook(ctx, ev)
}
