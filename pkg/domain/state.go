package domain

import "time"

// Status is the position of an interview in its state machine.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusAwaitingAnswer Status = "awaiting_answer"
	StatusDone           Status = "done"
)

// Session represents the current snapshot of one interview.
type Session struct {
	ID string `json:"id"`

	// ComplaintID is the graph driving the interview. Empty until started.
	ComplaintID string `json:"complaint_id,omitempty"`

	Status Status `json:"status"`

	// CurrentQuestionID is the question awaiting an answer. Empty unless
	// Status is StatusAwaitingAnswer.
	CurrentQuestionID string `json:"current_question_id,omitempty"`

	// History is the path of questions shown, in order.
	History []string `json:"history,omitempty"`

	// Record holds demographics and the accumulated answers.
	Record PatientRecord `json:"record"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session that has not started yet.
func NewSession(id string, record PatientRecord) *Session {
	return &Session{
		ID:     id,
		Status: StatusNotStarted,
		Record: *record.Clone(),
	}
}

// Answers returns the accumulated answer map.
func (s *Session) Answers() AnswerMap { return s.Record.Answers }

// Done reports whether the interview has finished.
func (s *Session) Done() bool { return s.Status == StatusDone }

// Visited reports whether questionID was shown during this session.
func (s *Session) Visited(questionID string) bool {
	for _, id := range s.History {
		if id == questionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot alias store-owned state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.History != nil {
		c.History = make([]string, len(s.History))
		copy(c.History, s.History)
	}
	c.Record = *s.Record.Clone()
	return &c
}
