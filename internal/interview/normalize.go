package interview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Normalize validates value against q's type and returns its canonical form:
// "Yes"/"No" for yes/no questions, the listed option for multiple choice,
// float64 for numbers and YYYY-MM-DD for dates.
func Normalize(q *domain.Question, value any) (any, error) {
	invalid := func(reason string) error {
		return &domain.AnswerError{
			QuestionID: q.ID,
			Type:       q.Type,
			Value:      domain.FormatAnswer(value),
			Reason:     reason,
		}
	}

	if value == nil {
		return nil, invalid("an answer is required")
	}

	switch q.Type {
	case domain.QuestionYesNo:
		if b, ok := value.(bool); ok {
			if b {
				return domain.AnswerYes, nil
			}
			return domain.AnswerNo, nil
		}
		switch strings.ToLower(strings.TrimSpace(domain.FormatAnswer(value))) {
		case "yes", "y", "true", "1":
			return domain.AnswerYes, nil
		case "no", "n", "false", "0":
			return domain.AnswerNo, nil
		}
		return nil, invalid("expected Yes or No")

	case domain.QuestionMultipleChoice:
		text := strings.TrimSpace(domain.FormatAnswer(value))
		if text == "" {
			return nil, invalid("an answer is required")
		}
		if len(q.Options) == 0 {
			return text, nil
		}
		for _, opt := range q.Options {
			if strings.EqualFold(opt, text) {
				return opt, nil
			}
		}
		// Console users may type the 1-based option number.
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], nil
		}
		return nil, invalid(fmt.Sprintf("expected one of %s", strings.Join(q.Options, ", ")))

	case domain.QuestionText:
		text := strings.TrimSpace(domain.FormatAnswer(value))
		if text == "" {
			return nil, invalid("an answer is required")
		}
		return text, nil

	case domain.QuestionNumber:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		default:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(domain.FormatAnswer(value)), 64)
			if err != nil {
				return nil, invalid("expected a number")
			}
			f = parsed
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("expected a finite number")
		}
		return f, nil

	case domain.QuestionDate:
		if t, ok := value.(time.Time); ok {
			return t.Format(domain.DateLayout), nil
		}
		text := strings.TrimSpace(domain.FormatAnswer(value))
		if t, err := time.Parse(domain.DateLayout, text); err == nil {
			return t.Format(domain.DateLayout), nil
		}
		if t, err := time.Parse(time.RFC3339, text); err == nil {
			return t.Format(domain.DateLayout), nil
		}
		return nil, invalid("expected a date in YYYY-MM-DD format")
	}

	return nil, invalid(fmt.Sprintf("unsupported question type %q", q.Type))
}
