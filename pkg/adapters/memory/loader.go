package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Loader implements ports.GraphLoader using in-memory JSON documents.
type Loader struct {
	docs [][]byte
}

// NewLoader creates a Loader from raw JSON complaint graph documents.
// Documents are decoded on every LoadGraphs call so callers always get
// fresh graphs.
func NewLoader(docs ...string) *Loader {
	l := &Loader{}
	for _, d := range docs {
		l.docs = append(l.docs, []byte(d))
	}
	return l
}

// NewFromGraphs creates a Loader from domain objects.
// This handles serialization automatically, improving DX for tests.
func NewFromGraphs(graphs ...*domain.ComplaintGraph) (*Loader, error) {
	l := &Loader{}
	for _, g := range graphs {
		if g.ID == "" {
			return nil, fmt.Errorf("complaint graph missing ID")
		}
		b, err := json.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph %s: %w", g.ID, err)
		}
		l.docs = append(l.docs, b)
	}
	return l, nil
}

// LoadGraphs decodes every document, in insertion order.
func (l *Loader) LoadGraphs(_ context.Context) ([]*domain.ComplaintGraph, error) {
	out := make([]*domain.ComplaintGraph, 0, len(l.docs))
	for i, d := range l.docs {
		var g domain.ComplaintGraph
		if err := json.Unmarshal(d, &g); err != nil {
			return nil, fmt.Errorf("graph document %d: %w", i, err)
		}
		for id, q := range g.Questions {
			if q != nil && q.ID == "" {
				q.ID = id
			}
		}
		out = append(out, &g)
	}
	return out, nil
}
