package dsl

import "github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// Question sets the prompt text.
func (q *QuestionBuilder) Question(text string) *QuestionBuilder {
	q.question.Text = text
	return q
}

// YesNo marks the question as a yes/no question.
func (q *QuestionBuilder) YesNo() *QuestionBuilder {
	q.question.Type = domain.QuestionYesNo
	q.question.Options = nil
	return q
}

// Choice marks the question as multiple choice over the given options.
func (q *QuestionBuilder) Choice(options ...string) *QuestionBuilder {
	q.question.Type = domain.QuestionMultipleChoice
	q.question.Options = append([]string(nil), options...)
	return q
}

// Text marks the question as free text.
func (q *QuestionBuilder) Text() *QuestionBuilder {
	q.question.Type = domain.QuestionText
	return q
}

// Number marks the question as numeric.
func (q *QuestionBuilder) Number() *QuestionBuilder {
	q.question.Type = domain.QuestionNumber
	return q
}

// Date marks the question as a date.
func (q *QuestionBuilder) Date() *QuestionBuilder {
	q.question.Type = domain.QuestionDate
	return q
}

// Go adds targets to the default transition.
func (q *QuestionBuilder) Go(targets ...string) *QuestionBuilder {
	return q.Branch(domain.DefaultTransition, targets...)
}

// Branch adds targets to the transition taken when the answer equals value.
func (q *QuestionBuilder) Branch(value string, targets ...string) *QuestionBuilder {
	if q.question.Next == nil {
		q.question.Next = make(map[string][]string)
	}
	q.question.Next[value] = append(q.question.Next[value], targets...)
	return q
}

// End makes value finish the interview even when a default transition exists.
func (q *QuestionBuilder) End(value string) *QuestionBuilder {
	if q.question.Next == nil {
		q.question.Next = make(map[string][]string)
	}
	q.question.Next[value] = []string{}
	return q
}

// RedFlag marks the question as safety-critical; only "Yes" raises it.
func (q *QuestionBuilder) RedFlag(note string) *QuestionBuilder {
	q.question.RedFlag = &domain.RedFlag{Note: note}
	return q
}

// RedFlagUnless marks the question as safety-critical; any answer other
// than the listed negatives raises it.
func (q *QuestionBuilder) RedFlagUnless(note string, negatives ...string) *QuestionBuilder {
	q.question.RedFlag = &domain.RedFlag{Note: note, Negatives: negatives}
	return q
}

// Terminal marks the question as the end of the flow.
func (q *QuestionBuilder) Terminal() *QuestionBuilder {
	q.question.Next = nil
	return q
}

// Build returns a copy of the underlying domain.Question.
func (q *QuestionBuilder) Build() domain.Question {
	out := q.question
	out.Options = append([]string(nil), q.question.Options...)
	if q.question.Next != nil {
		out.Next = make(map[string][]string, len(q.question.Next))
		for k, v := range q.question.Next {
			out.Next[k] = append([]string{}, v...)
		}
	}
	if q.question.RedFlag != nil {
		rf := *q.question.RedFlag
		out.RedFlag = &rf
	}
	return out
}
