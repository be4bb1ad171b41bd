package loam

// GraphMetadata is the frontmatter of one complaint graph document.
// The markdown body is free-form clinician notes and is ignored.
type GraphMetadata struct {
	ID              string `json:"id" mapstructure:"id"`
	Name            string `json:"name" mapstructure:"name"`
	InitialQuestion string `json:"initial_question" mapstructure:"initial_question"`

	// Questions are kept untyped so each entry can use the shorthand forms
	// accepted by QuestionMetadata.
	Questions []any `json:"questions" mapstructure:"questions"`
}

// QuestionMetadata is one entry of GraphMetadata.Questions.
//
// Transitions accept a few spellings:
//
//	to: severity                      # default transition
//	next_questions:
//	  Yes: red_flag_cardiac           # single target
//	  No: [severity, timing]          # target list, first wins
type QuestionMetadata struct {
	ID      string           `mapstructure:"id"`
	Text    string           `mapstructure:"text"`
	Type    string           `mapstructure:"type"`
	Options []string         `mapstructure:"options"`
	To      string           `mapstructure:"to"`
	Next    map[string]any   `mapstructure:"next_questions"`
	RedFlag *RedFlagMetadata `mapstructure:"red_flag"`
}

// RedFlagMetadata marks a question as a red flag.
type RedFlagMetadata struct {
	Note      string   `mapstructure:"note"`
	Negatives []string `mapstructure:"negatives"`
}
