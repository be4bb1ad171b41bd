package domain

import (
	"slices"
	"strings"
)

// Predicate decides whether an answer value counts as positive.
type Predicate func(value string) bool

// RedFlag marks a safety-critical question and carries the note emitted in
// the summary when the answer is positive.
type RedFlag struct {
	Note string `json:"note" yaml:"note"`

	// Negatives lists the answer values that do not raise the flag. When set,
	// any other non-empty value is positive; when empty, only "Yes" is.
	Negatives []string `json:"negatives,omitempty" yaml:"negatives,omitempty"`

	// Positive overrides the predicate derived from Negatives.
	Positive Predicate `json:"-" yaml:"-"`
}

// IsPositive reports whether value raises the flag.
func (r *RedFlag) IsPositive(value string) bool {
	if r == nil {
		return false
	}
	if r.Positive != nil {
		return r.Positive(value)
	}
	if len(r.Negatives) > 0 {
		return NotNegativePredicate(r.Negatives...)(value)
	}
	return YesPredicate(value)
}

// YesPredicate is positive only for the literal "Yes".
func YesPredicate(value string) bool {
	return value == AnswerYes
}

// NotNegativePredicate is positive for any non-empty value that is not one
// of the given negative sentinels (compared case-insensitively).
func NotNegativePredicate(negatives ...string) Predicate {
	lowered := make([]string, len(negatives))
	for i, n := range negatives {
		lowered[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return func(value string) bool {
		v := strings.ToLower(strings.TrimSpace(value))
		return v != "" && !slices.Contains(lowered, v)
	}
}

// IsLegacyRedFlagID reports whether id follows the "red_flag_" naming used
// by records created before flags were attached to questions.
func IsLegacyRedFlagID(id string) bool {
	return strings.HasPrefix(id, RedFlagPrefix)
}

// RaisesRedFlag reports whether answering q with value raises a red flag.
// Questions without a RedFlag only count when their id carries the legacy
// "red_flag_" prefix and the value is "Yes".
func (q *Question) RaisesRedFlag(value string) bool {
	if q.IsRedFlag() {
		return q.RedFlag.IsPositive(value)
	}
	return IsLegacyRedFlagID(q.ID) && YesPredicate(value)
}
