package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInterviewStarted   EventType = "interview_started"
	EventQuestionAnswered   EventType = "question_answered"
	EventInterviewCompleted EventType = "interview_completed"
	EventRedFlagRaised      EventType = "red_flag_raised"
)

// InterviewEvent describes one step of an interview.
type InterviewEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	SessionID   string    `json:"session_id"`
	ComplaintID string    `json:"complaint_id"`
	QuestionID  string    `json:"question_id,omitempty"`
	Value       string    `json:"value,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnStart    func(context.Context, *InterviewEvent)
	OnAnswer   func(context.Context, *InterviewEvent)
	OnComplete func(context.Context, *InterviewEvent)
	OnRedFlag  func(context.Context, *InterviewEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStart:    chain(h.OnStart, other.OnStart),
		OnAnswer:   chain(h.OnAnswer, other.OnAnswer),
		OnComplete: chain(h.OnComplete, other.OnComplete),
		OnRedFlag:  chain(h.OnRedFlag, other.OnRedFlag),
	}
}

func chain(a, b func(context.Context, *InterviewEvent)) func(context.Context, *InterviewEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *InterviewEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
