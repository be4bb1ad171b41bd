package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ComplaintGraph is the rooted directed graph of questions for one chief complaint.
type ComplaintGraph struct {
	ID              string               `json:"id" yaml:"id"`
	Name            string               `json:"name" yaml:"name"`
	InitialQuestion string               `json:"initial_question" yaml:"initial_question"`
	Questions       map[string]*Question `json:"questions" yaml:"questions"`

	// Order is the authoring order of the questions. Listings, diagrams and
	// validation reports iterate it; questions missing from it come last.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`
}

// Question returns the question with the given id.
func (g *ComplaintGraph) Question(id string) (*Question, bool) {
	if g == nil {
		return nil, false
	}
	q, ok := g.Questions[id]
	return q, ok
}

// Initial returns the first question of the interview.
func (g *ComplaintGraph) Initial() (*Question, error) {
	q, ok := g.Question(g.InitialQuestion)
	if !ok {
		return nil, &GraphIntegrityError{
			ComplaintID: g.ID,
			QuestionID:  g.InitialQuestion,
			Reason:      "initial question is not defined",
		}
	}
	return q, nil
}

// Matches reports whether key names this graph by id or display name.
func (g *ComplaintGraph) Matches(key string) bool {
	key = strings.TrimSpace(key)
	return g.ID == key || strings.EqualFold(g.Name, key)
}

// QuestionIDs returns every question id in authoring order.
func (g *ComplaintGraph) QuestionIDs() []string {
	seen := make(map[string]bool, len(g.Questions))
	ids := make([]string, 0, len(g.Questions))
	for _, id := range g.Order {
		if _, ok := g.Questions[id]; ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range sortedKeys(g.Questions) {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// RedFlags returns the questions carrying a RedFlag, in authoring order.
func (g *ComplaintGraph) RedFlags() []*Question {
	var out []*Question
	for _, id := range g.QuestionIDs() {
		if q := g.Questions[id]; q.IsRedFlag() {
			out = append(out, q)
		}
	}
	return out
}

// Check verifies the structural invariants a graph must hold before it can
// be started: an id, a name and an initial question present in the table.
// Reachability and termination are checked by the validator.
func (g *ComplaintGraph) Check() error {
	if g.ID == "" {
		return fmt.Errorf("complaint graph has no id")
	}
	if g.Name == "" {
		return fmt.Errorf("complaint graph %q has no name", g.ID)
	}
	if _, err := g.Initial(); err != nil {
		return err
	}
	for id, q := range g.Questions {
		if q == nil || q.ID != id {
			return &GraphIntegrityError{ComplaintID: g.ID, QuestionID: id, Reason: "question key does not match its id"}
		}
		if !q.Type.Valid() {
			return &GraphIntegrityError{ComplaintID: g.ID, QuestionID: id, Reason: fmt.Sprintf("unknown question type %q", q.Type)}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
