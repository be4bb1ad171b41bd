// Package validator checks complaint graphs eagerly, for tooling and CI.
// The interview engine itself validates lazily while traversing.
package validator

import (
	"fmt"
	"strings"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a question of a graph.
type Issue struct {
	Severity   Severity `json:"severity"`
	QuestionID string   `json:"question_id,omitempty"`
	Message    string   `json:"message"`
}

func (i Issue) String() string {
	if i.QuestionID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.QuestionID, i.Message)
}

// Report lists the findings for one complaint graph.
type Report struct {
	ComplaintID string  `json:"complaint_id"`
	Issues      []Issue `json:"issues"`
}

// Valid reports whether the graph has no errors. Warnings are allowed.
func (r *Report) Valid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Err returns the errors of the report as a single error, or nil.
func (r *Report) Err() error {
	var lines []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			lines = append(lines, i.String())
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return fmt.Errorf("complaint %q: found %d errors:\n- %s", r.ComplaintID, len(lines), strings.Join(lines, "\n- "))
}

func (r *Report) add(sev Severity, questionID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, QuestionID: questionID, Message: fmt.Sprintf(format, args...)})
}

// ValidateGraph crawls g from its initial question and reports dead links,
// unreachable questions, questions from which the interview can never end,
// and malformed question definitions.
func ValidateGraph(g *domain.ComplaintGraph) *Report {
	r := &Report{ComplaintID: g.ID}

	if g.Name == "" {
		r.add(SeverityWarning, "", "graph has no display name")
	}
	if _, ok := g.Question(g.InitialQuestion); !ok {
		r.add(SeverityError, "", "initial question %q is not defined", g.InitialQuestion)
	}

	ids := g.QuestionIDs()
	for _, id := range ids {
		q, _ := g.Question(id)
		checkQuestion(r, g, id, q)
	}

	reachable := crawl(g)
	for _, id := range ids {
		if !reachable[id] {
			r.add(SeverityWarning, id, "unreachable from %q", g.InitialQuestion)
		}
	}

	ending := canEnd(g)
	for _, id := range ids {
		if reachable[id] && !ending[id] {
			r.add(SeverityError, id, "every path from here loops forever")
		}
	}
	return r
}

// ValidateAll validates every graph and joins their errors.
func ValidateAll(graphs []*domain.ComplaintGraph) ([]*Report, error) {
	reports := make([]*Report, 0, len(graphs))
	var errs []string
	for _, g := range graphs {
		rep := ValidateGraph(g)
		reports = append(reports, rep)
		if err := rep.Err(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return reports, fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return reports, nil
}

func checkQuestion(r *Report, g *domain.ComplaintGraph, id string, q *domain.Question) {
	if q.ID != "" && q.ID != id {
		r.add(SeverityError, id, "question declares id %q", q.ID)
	}
	if !q.Type.Valid() {
		r.add(SeverityError, id, "unknown question type %q", q.Type)
	}
	if strings.TrimSpace(q.Text) == "" {
		r.add(SeverityWarning, id, "question has no text")
	}
	if q.Type == domain.QuestionMultipleChoice && len(q.Options) == 0 {
		r.add(SeverityError, id, "multiple choice question has no options")
	}
	if q.RedFlag != nil && strings.TrimSpace(q.RedFlag.Note) == "" {
		r.add(SeverityWarning, id, "red flag has no note")
	}

	choices := q.Choices()
	for key, targets := range q.Next {
		if key != domain.DefaultTransition && choices != nil && !containsFold(choices, key) {
			r.add(SeverityWarning, id, "transition key %q is not an option", key)
		}
		if len(targets) > 1 {
			r.add(SeverityWarning, id, "transition %q lists %d targets; only %q is followed", key, len(targets), targets[0])
		}
		if len(targets) > 0 {
			if _, ok := g.Question(targets[0]); !ok {
				r.add(SeverityError, id, "transition %q targets undefined question %q", key, targets[0])
			}
		}
	}
}

// crawl returns the questions reachable from the initial question through
// followed transitions (first target of each list).
func crawl(g *domain.ComplaintGraph) map[string]bool {
	visited := make(map[string]bool)
	queue := []string{g.InitialQuestion}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		q, ok := g.Question(id)
		if !ok || visited[id] {
			continue
		}
		visited[id] = true
		for _, next := range followed(q) {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}
	return visited
}

// canEnd returns the questions from which some sequence of answers finishes
// the interview. A question ends the interview when some answer resolves to
// no transition.
func canEnd(g *domain.ComplaintGraph) map[string]bool {
	ending := make(map[string]bool)
	for _, id := range g.QuestionIDs() {
		q, _ := g.Question(id)
		if mayTerminate(q) {
			ending[id] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, id := range g.QuestionIDs() {
			if ending[id] {
				continue
			}
			q, _ := g.Question(id)
			for _, next := range followed(q) {
				// Dead links are reported on their own.
				if _, defined := g.Question(next); !defined || ending[next] {
					ending[id] = true
					changed = true
					break
				}
			}
		}
	}
	return ending
}

func mayTerminate(q *domain.Question) bool {
	for _, targets := range q.Next {
		if len(targets) == 0 {
			return true
		}
	}
	if len(q.Next[domain.DefaultTransition]) > 0 {
		// Unmatched answers fall through to the default.
		return false
	}
	choices := q.Choices()
	if choices == nil {
		return true
	}
	for _, c := range choices {
		if len(q.Transitions(c)) == 0 {
			return true
		}
	}
	return false
}

func followed(q *domain.Question) []string {
	var out []string
	for _, targets := range q.Next {
		if len(targets) > 0 {
			out = append(out, targets[0])
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
