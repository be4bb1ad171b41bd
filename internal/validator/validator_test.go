package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/validator"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

func q(id string, typ domain.QuestionType, next map[string][]string, options ...string) *domain.Question {
	return &domain.Question{ID: id, Text: id + "?", Type: typ, Options: options, Next: next}
}

func graphOf(initial string, questions ...*domain.Question) *domain.ComplaintGraph {
	g := &domain.ComplaintGraph{ID: "test", Name: "Test", InitialQuestion: initial, Questions: map[string]*domain.Question{}}
	for _, question := range questions {
		g.Questions[question.ID] = question
		g.Order = append(g.Order, question.ID)
	}
	return g
}

func messages(r *validator.Report, sev validator.Severity) []string {
	var out []string
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i.String())
		}
	}
	return out
}

func TestValidateAll_Bundled(t *testing.T) {
	reports, err := validator.ValidateAll(catalog.Bundled())
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.True(t, r.Valid(), r.ComplaintID)
		assert.Empty(t, r.Issues, r.ComplaintID)
	}
}

func TestValidateGraph(t *testing.T) {
	tests := []struct {
		name     string
		graph    *domain.ComplaintGraph
		errors   []string
		warnings []string
	}{
		{
			name: "valid chain",
			graph: graphOf("a",
				q("a", domain.QuestionText, map[string][]string{"default": {"b"}}),
				q("b", domain.QuestionYesNo, nil),
			),
		},
		{
			name:   "missing initial",
			graph:  graphOf("ghost", q("a", domain.QuestionText, nil)),
			errors: []string{`error: initial question "ghost" is not defined`},
			warnings: []string{
				`warning: a: unreachable from "ghost"`,
			},
		},
		{
			name: "dead link",
			graph: graphOf("a",
				q("a", domain.QuestionText, map[string][]string{"default": {"ghost"}}),
			),
			errors: []string{`error: a: transition "default" targets undefined question "ghost"`},
		},
		{
			name: "unreachable question",
			graph: graphOf("a",
				q("a", domain.QuestionText, nil),
				q("orphan", domain.QuestionText, nil),
			),
			warnings: []string{`warning: orphan: unreachable from "a"`},
		},
		{
			name: "endless loop",
			graph: graphOf("a",
				q("a", domain.QuestionText, map[string][]string{"default": {"b"}}),
				q("b", domain.QuestionText, map[string][]string{"default": {"a"}}),
			),
			errors: []string{
				"error: a: every path from here loops forever",
				"error: b: every path from here loops forever",
			},
		},
		{
			name: "loop with an exit",
			graph: graphOf("a",
				q("a", domain.QuestionYesNo, map[string][]string{"Yes": {"b"}}),
				q("b", domain.QuestionText, map[string][]string{"default": {"a"}}),
			),
		},
		{
			name: "routed choices cannot end",
			graph: graphOf("a",
				q("a", domain.QuestionMultipleChoice, map[string][]string{"X": {"a"}, "Y": {"a"}}, "X", "Y"),
			),
			errors: []string{"error: a: every path from here loops forever"},
		},
		{
			name: "malformed question",
			graph: graphOf("a",
				q("a", domain.QuestionMultipleChoice, map[string][]string{"Maybe": {}}),
			),
			errors: []string{"error: a: multiple choice question has no options"},
		},
		{
			name: "fan out and foreign key",
			graph: graphOf("a",
				q("a", domain.QuestionYesNo, map[string][]string{"Perhaps": {"b", "c"}}),
				q("b", domain.QuestionText, nil),
				q("c", domain.QuestionText, nil),
			),
			warnings: []string{
				`warning: a: transition key "Perhaps" is not an option`,
				`warning: a: transition "Perhaps" lists 2 targets; only "b" is followed`,
				`warning: c: unreachable from "a"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validator.ValidateGraph(tt.graph)
			assert.ElementsMatch(t, tt.errors, messages(r, validator.SeverityError))
			assert.ElementsMatch(t, tt.warnings, messages(r, validator.SeverityWarning))
			assert.Equal(t, len(tt.errors) == 0, r.Valid())
			if len(tt.errors) == 0 {
				assert.NoError(t, r.Err())
			} else {
				assert.ErrorContains(t, r.Err(), `complaint "test"`)
			}
		})
	}
}

func TestValidateGraph_BadType(t *testing.T) {
	r := validator.ValidateGraph(graphOf("a", q("a", "slider", nil)))
	assert.Contains(t, messages(r, validator.SeverityError), `error: a: unknown question type "slider"`)
}
