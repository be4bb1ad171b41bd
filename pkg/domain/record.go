package domain

import (
	"strings"
	"time"
)

// PatientRecord is the demographic intake plus the answers gathered during
// the interview. It is the input of the narrative generator.
type PatientRecord struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	ContactInfo    string    `json:"contact_info,omitempty"`
	DateOfVisit    string    `json:"date_of_visit"`
	ChiefComplaint string    `json:"chief_complaint,omitempty"`
	Answers        AnswerMap `json:"answers"`

	// Summary caches the generated narrative. It is derived data and is
	// regenerated whenever it is empty.
	Summary string `json:"summary,omitempty"`
}

// FullName joins the first and last names.
func (r *PatientRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Clone returns a deep copy of the record.
func (r *PatientRecord) Clone() *PatientRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Answers = r.Answers.Clone()
	return &c
}

// Validate checks the demographic intake before an interview starts.
func (r *PatientRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.FirstName) == "":
		return &ValidationError{Field: "first_name", Reason: "required"}
	case strings.TrimSpace(r.LastName) == "":
		return &ValidationError{Field: "last_name", Reason: "required"}
	case r.Age < 0 || r.Age > 150:
		return &ValidationError{Field: "age", Reason: "must be between 0 and 150"}
	}
	if r.DateOfVisit != "" {
		if _, err := time.Parse(DateLayout, r.DateOfVisit); err != nil {
			return &ValidationError{Field: "date_of_visit", Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}
