package interview_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

func TestNormalize(t *testing.T) {
	yesNo := &domain.Question{ID: "q", Type: domain.QuestionYesNo}
	choice := &domain.Question{ID: "q", Type: domain.QuestionMultipleChoice, Options: []string{"Sharp", "Dull"}}
	text := &domain.Question{ID: "q", Type: domain.QuestionText}
	number := &domain.Question{ID: "q", Type: domain.QuestionNumber}
	date := &domain.Question{ID: "q", Type: domain.QuestionDate}

	valid := []struct {
		name string
		q    *domain.Question
		in   any
		want any
	}{
		{"yes", yesNo, "yes", "Yes"},
		{"y", yesNo, " Y ", "Yes"},
		{"bool false", yesNo, false, "No"},
		{"no", yesNo, "NO", "No"},
		{"choice case", choice, "dull", "Dull"},
		{"choice number", choice, "1", "Sharp"},
		{"text trimmed", text, "  asthma ", "asthma"},
		{"text from number", text, 12, "12"},
		{"number string", number, " 7 ", 7.0},
		{"number float", number, 6.5, 6.5},
		{"number int", number, 3, 3.0},
		{"date", date, "2024-03-01", "2024-03-01"},
		{"date rfc3339", date, "2024-03-01T10:00:00Z", "2024-03-01"},
		{"date time", date, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
	}
	for _, tc := range valid {
		t.Run(tc.name, func(t *testing.T) {
			got, err := interview.Normalize(tc.q, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	invalid := []struct {
		name string
		q    *domain.Question
		in   any
	}{
		{"nil", text, nil},
		{"maybe", yesNo, "maybe"},
		{"unknown option", choice, "Burning"},
		{"option out of range", choice, "3"},
		{"blank text", text, "   "},
		{"not a number", number, "eight"},
		{"bad date", date, "03/01/2024"},
		{"unknown type", &domain.Question{ID: "q", Type: "slider"}, "1"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := interview.Normalize(tc.q, tc.in)
			var ae *domain.AnswerError
			assert.ErrorAs(t, err, &ae)
		})
	}
}
