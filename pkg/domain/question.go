package domain

// QuestionType defines the kind of input a question collects.
type QuestionType string

const (
	QuestionYesNo          QuestionType = "yes_no"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
	QuestionNumber         QuestionType = "number"
	QuestionDate           QuestionType = "date"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionYesNo, QuestionMultipleChoice, QuestionText, QuestionNumber, QuestionDate:
		return true
	}
	return false
}

// Question represents a single prompt in a complaint graph.
type Question struct {
	ID   string       `json:"id" yaml:"id"`
	Text string       `json:"text" yaml:"text"`
	Type QuestionType `json:"type" yaml:"type"`

	// Options holds the ordered labels of a multiple-choice question.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Next maps an answer value (or DefaultTransition) to the ordered list of
	// follow-up question ids. An empty list ends the interview on that path.
	Next map[string][]string `json:"next_questions,omitempty" yaml:"next_questions,omitempty"`

	// RedFlag marks a safety-critical question; nil for ordinary questions.
	RedFlag *RedFlag `json:"red_flag,omitempty" yaml:"red_flag,omitempty"`
}

// IsRedFlag reports whether the question surfaces a safety-critical branch.
func (q *Question) IsRedFlag() bool {
	return q != nil && q.RedFlag != nil
}

// Choices returns the values the input control for this question can produce.
// Free text, numeric and date questions return nil (unbounded).
func (q *Question) Choices() []string {
	switch q.Type {
	case QuestionYesNo:
		return []string{AnswerYes, AnswerNo}
	case QuestionMultipleChoice:
		return q.Options
	}
	return nil
}
