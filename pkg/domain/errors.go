package domain

import (
	"errors"
	"fmt"
)

// ErrComplaintNotFound is returned when no graph matches a complaint id or name.
var ErrComplaintNotFound = errors.New("complaint not found")

// ErrInterviewDone is returned when an answer is submitted after the interview finished.
var ErrInterviewDone = errors.New("interview already done")

// ErrInterviewNotStarted is returned when an answer is submitted before Start.
var ErrInterviewNotStarted = errors.New("interview not started")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrQuestionNotFound is returned when an edit names a question outside the session's graph.
var ErrQuestionNotFound = errors.New("question not found")

// ErrPatientNotFound is returned when a patient record cannot be found.
var ErrPatientNotFound = errors.New("patient not found")

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// GraphIntegrityError reports a traversal that hit a question id missing
// from the graph. It is an authoring bug and fatal for the session.
type GraphIntegrityError struct {
	ComplaintID string
	QuestionID  string
	Reason      string
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("graph integrity error in complaint %q at question %q: %s", e.ComplaintID, e.QuestionID, e.Reason)
}

// AnswerError reports a value the current question cannot accept.
// The session is left untouched.
type AnswerError struct {
	QuestionID string
	Type       QuestionType
	Value      string
	Reason     string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q for %s question %q: %s", e.Value, e.Type, e.QuestionID, e.Reason)
}

// ValidationError reports an unusable field of a patient record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
