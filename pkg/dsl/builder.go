package dsl

import (
	"fmt"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	id      string
	name    string
	initial string
	order   []string
	nodes   map[string]*QuestionBuilder
}

// New creates a new complaint graph builder.
func New(id, name string) *Builder {
	return &Builder{
		id:    id,
		name:  name,
		nodes: make(map[string]*QuestionBuilder),
	}
}

// Start sets the initial question. Defaults to the first question added.
func (b *Builder) Start(id string) *Builder {
	b.initial = id
	return b
}

// Add creates a new question in the graph.
// If the question already exists, it returns the existing builder.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.nodes[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			ID:   id,
			Type: domain.QuestionText,
		},
		builder: b,
	}
	b.nodes[id] = qb
	b.order = append(b.order, id)
	if b.initial == "" {
		b.initial = id
	}
	return qb
}

// Build compiles the questions into a complaint graph and checks its
// structural invariants.
func (b *Builder) Build() (*domain.ComplaintGraph, error) {
	g := &domain.ComplaintGraph{
		ID:              b.id,
		Name:            b.name,
		InitialQuestion: b.initial,
		Questions:       make(map[string]*domain.Question, len(b.nodes)),
		Order:           append([]string(nil), b.order...),
	}
	for id, qb := range b.nodes {
		q := qb.Build()
		g.Questions[id] = &q
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("failed to build complaint graph: %w", err)
	}
	return g, nil
}

// MustBuild is like Build but panics on error. It is meant for bundled
// graphs defined at package initialisation.
func (b *Builder) MustBuild() *domain.ComplaintGraph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
