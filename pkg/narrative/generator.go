package narrative

import (
	"fmt"
	"strings"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Sentinel results returned instead of a note.
const (
	InsufficientData  = "Insufficient data to generate summary."
	ComplaintNotFound = "Error: Complaint data not found."
)

// WarningHeading introduces the red-flag block.
const WarningHeading = "### WARNING: Red Flag Symptoms Present"

// GraphFinder resolves a chief complaint display name to its graph.
type GraphFinder interface {
	FindByName(name string) (*domain.ComplaintGraph, bool)
}

// Generator renders notes. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	graphs GraphFinder
	now    func() time.Time
}

// Option configures the Generator.
type Option func(*Generator)

// WithClock sets the time source used for onset arithmetic and for the
// visit date when a record has none.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a generator resolving complaints through graphs.
func New(graphs GraphFinder, opts ...Option) *Generator {
	g := &Generator{graphs: graphs, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the note for record.
func (g *Generator) Generate(record *domain.PatientRecord) string {
	graph, sentinel := g.resolve(record)
	if sentinel != "" {
		return sentinel
	}
	now := g.now()
	complaint := strings.TrimSpace(record.ChiefComplaint)

	visit := record.DateOfVisit
	if visit == "" {
		visit = now.Format(domain.DateLayout)
	}

	parts := []string{
		"# PATIENT HISTORY\n",
		"## DEMOGRAPHICS",
		fmt.Sprintf("%s %s, %d year old %s", record.FirstName, record.LastName, record.Age, record.Gender),
		fmt.Sprintf("Date of Visit: %s\n", visit),
		"## CHIEF COMPLAINT",
		complaint + "\n",
		"## HISTORY OF PRESENT ILLNESS",
		hpi(complaint, record.Answers, graph, now),
	}

	if notes := redFlagNotes(record.Answers, graph); len(notes) > 0 {
		parts = append(parts, "\n"+WarningHeading)
		for _, n := range notes {
			parts = append(parts, "- "+n)
		}
	}

	parts = append(parts,
		"\n## ASSESSMENT",
		complaint+" - clinical correlation required.",
		"\n## PLAN",
		"1. Complete physical examination focused on the presenting complaint.",
		"2. Order investigations as clinically indicated.",
		"3. Arrange follow-up and review results with the patient.",
	)
	return strings.Join(parts, "\n")
}

// RedFlags returns the red-flag notes raised by record's answers, in answer
// order. It returns nil when no note can be generated for the record.
func (g *Generator) RedFlags(record *domain.PatientRecord) []string {
	graph, sentinel := g.resolve(record)
	if sentinel != "" {
		return nil
	}
	return redFlagNotes(record.Answers, graph)
}

// HasRedFlags reports whether record raises at least one red flag.
func (g *Generator) HasRedFlags(record *domain.PatientRecord) bool {
	return len(g.RedFlags(record)) > 0
}

func (g *Generator) resolve(record *domain.PatientRecord) (*domain.ComplaintGraph, string) {
	if record == nil || record.Answers.Len() == 0 || strings.TrimSpace(record.ChiefComplaint) == "" {
		return nil, InsufficientData
	}
	if g.graphs == nil {
		return nil, ComplaintNotFound
	}
	graph, ok := g.graphs.FindByName(record.ChiefComplaint)
	if !ok {
		return nil, ComplaintNotFound
	}
	return graph, ""
}

// redFlagNotes scans answers in order. Graph questions use their own
// predicate; ids unknown to the graph fall back to the legacy prefix rule.
func redFlagNotes(answers domain.AnswerMap, graph *domain.ComplaintGraph) []string {
	var notes []string
	answers.Each(func(id string, v any) {
		value := domain.FormatAnswer(v)
		q, ok := graph.Question(id)
		if !ok {
			q = &domain.Question{ID: id}
		}
		if !q.RaisesRedFlag(value) {
			return
		}
		if q.RedFlag != nil && q.RedFlag.Note != "" {
			notes = append(notes, q.RedFlag.Note)
			return
		}
		notes = append(notes, legacyNote(id))
	})
	return notes
}

var legacyNotes = map[string]string{
	"red_flag_cardiac":     "Possible cardiac origin - urgent cardiac evaluation recommended.",
	"red_flag_gi_bleed":    "Possible gastrointestinal bleeding - urgent assessment required.",
	"red_flag_peritonism":  "Signs of peritoneal irritation - urgent surgical review recommended.",
	"red_flag_ectopic":     "Possible ectopic pregnancy - urgent gynaecological assessment required.",
	"red_flag_thunderclap": "Thunderclap headache - urgent evaluation for subarachnoid haemorrhage.",
}

func legacyNote(id string) string {
	if n, ok := legacyNotes[id]; ok {
		return n
	}
	topic := strings.ReplaceAll(strings.TrimPrefix(id, domain.RedFlagPrefix), "_", " ")
	return fmt.Sprintf("Positive red flag: %s - urgent clinical review recommended.", topic)
}
