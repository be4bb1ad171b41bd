package domain

// Field constants shared by the catalog loaders and the wire formats.
const (
	// DefaultTransition is the transition table key used when no entry matches the answer.
	DefaultTransition = "default"

	// RedFlagPrefix marks legacy red-flag question ids ("red_flag_cardiac").
	// Questions with this prefix and no explicit RedFlag use the "Yes" predicate.
	RedFlagPrefix = "red_flag_"

	// AnswerYes and AnswerNo are the canonical yes/no answer values.
	AnswerYes = "Yes"
	AnswerNo  = "No"

	// DateLayout is the wire layout of date answers and visit dates.
	DateLayout = "2006-01-02"
)
