package narrative

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// clause renders the sentence for one well-known answer. ok is false when
// the value is a sentinel that should not be mentioned.
type clause func(value string, answers domain.AnswerMap, now time.Time) (text string, ok bool)

type knownClause struct {
	id     string
	render clause
}

// knownClauses is the fixed order of the HPI paragraph.
var knownClauses = []knownClause{
	{"onset", onsetClause},
	{"onset_type", lowered(" The onset was %s.")},
	{"character", lowered(" The pain is described as %s.")},
	{"location", lowered(" It is located in the %s.")},
	{"radiation", unless("No", lowered(" The pain radiates to the %s."))},
	{"severity", verbatim(" Patient would rate the pain as %s/10 in severity.")},
	{"timing", lowered(" The pain is %s.")},
	{"duration", lowered(" Symptoms have been present for %s.")},
	{"exacerbating", lowered(" The pain is worsened by %s.")},
	{"food_relation", lowered(" In relation to meals, the pain is %s.")},
	{"alleviating", lowered(" The pain is alleviated by %s.")},
	{"associated", unless("None", lowered(" Associated symptoms include %s."))},
	{"nausea_detail", lowered(" Regarding nausea, the patient reports %s.")},
	{"bowel_changes", lowered(" Bowel habits: %s.")},
	{"medical_history", verbatim(" Past medical history: %s.")},
	{"surgical_history", verbatim(" Past surgical history: %s.")},
	{"female_branch", femaleClause},
	{"last_meal", verbatim(" Last oral intake: %s.")},
}

// femaleSubIDs are rendered inside the female branch clause.
var femaleSubIDs = []string{"lmp", "pregnancy_possible", "pregnancy_test"}

var knownIDs = func() map[string]bool {
	m := make(map[string]bool, len(knownClauses)+len(femaleSubIDs))
	for _, c := range knownClauses {
		m[c.id] = true
	}
	for _, id := range femaleSubIDs {
		m[id] = true
	}
	return m
}()

func hpi(complaint string, answers domain.AnswerMap, graph *domain.ComplaintGraph, now time.Time) string {
	var b strings.Builder
	b.WriteString("Patient presents with ")
	b.WriteString(strings.ToLower(complaint))
	if onset, ok := answers.String("onset"); !ok || strings.TrimSpace(onset) == "" {
		b.WriteString(".")
	}

	for _, c := range knownClauses {
		value, ok := answers.String(c.id)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if text, ok := c.render(value, answers, now); ok {
			b.WriteString(text)
		}
	}

	answers.Each(func(id string, v any) {
		if knownIDs[id] {
			return
		}
		q, ok := graph.Question(id)
		if !ok {
			return
		}
		fmt.Fprintf(&b, " %s %s.", q.Text, domain.FormatAnswer(v))
	})

	return b.String()
}

func lowered(format string) clause {
	return func(value string, _ domain.AnswerMap, _ time.Time) (string, bool) {
		return fmt.Sprintf(format, strings.ToLower(value)), true
	}
}

func verbatim(format string) clause {
	return func(value string, _ domain.AnswerMap, _ time.Time) (string, bool) {
		return fmt.Sprintf(format, value), true
	}
}

func unless(sentinel string, next clause) clause {
	return func(value string, answers domain.AnswerMap, now time.Time) (string, bool) {
		if value == sentinel {
			return "", false
		}
		return next(value, answers, now)
	}
}

func onsetClause(value string, _ domain.AnswerMap, now time.Time) (string, bool) {
	days, ok := DaysSince(value, now)
	if !ok {
		return fmt.Sprintf(" that started on %s.", value), true
	}
	switch days {
	case 0:
		return " that started today.", true
	case 1:
		return " that started yesterday.", true
	}
	return fmt.Sprintf(" that started %d days ago.", days), true
}

// DaysSince returns ceil(|now - onset|) in whole days, where onset is a
// YYYY-MM-DD (or RFC 3339) date taken as UTC midnight and now is reduced to
// its calendar date. ok is false when onset cannot be parsed.
func DaysSince(onset string, now time.Time) (int, bool) {
	start, err := time.Parse(domain.DateLayout, strings.TrimSpace(onset))
	if err != nil {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(onset))
		if err != nil {
			return 0, false
		}
		start = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	diff := today.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24)), true
}

func femaleClause(value string, answers domain.AnswerMap, _ time.Time) (string, bool) {
	if value != domain.AnswerYes {
		return "", false
	}
	var b strings.Builder
	b.WriteString(" The patient is female and of reproductive age.")
	if lmp, ok := answers.String("lmp"); ok && lmp != "" {
		fmt.Fprintf(&b, " Last menstrual period began on %s.", lmp)
	}
	if possible, ok := answers.String("pregnancy_possible"); ok {
		switch possible {
		case domain.AnswerYes:
			b.WriteString(" She reports that pregnancy is possible.")
		case domain.AnswerNo:
			b.WriteString(" She reports that pregnancy is not possible.")
		}
	}
	if test, ok := answers.String("pregnancy_test"); ok && test != "" {
		fmt.Fprintf(&b, " Pregnancy test: %s.", strings.ToLower(test))
	}
	return b.String(), true
}
