// Package catalog indexes complaint graphs by id and display name and
// provides the bundled clinical content.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
)

// DefaultComplaintID is the graph used when a selected complaint has none.
const DefaultComplaintID = "chest-pain"

// Catalog is a read-only index of complaint graphs. It is safe for
// concurrent use.
type Catalog struct {
	graphs    []*domain.ComplaintGraph
	byID      map[string]*domain.ComplaintGraph
	defaultID string
}

// New indexes graphs in the given order. Duplicate ids are an error; graphs
// are otherwise accepted as authored.
func New(graphs ...*domain.ComplaintGraph) (*Catalog, error) {
	c := &Catalog{
		byID:      make(map[string]*domain.ComplaintGraph, len(graphs)),
		defaultID: DefaultComplaintID,
	}
	for _, g := range graphs {
		if g == nil {
			continue
		}
		if g.ID == "" {
			return nil, fmt.Errorf("catalog: complaint graph %q has no id", g.Name)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate complaint id %q", g.ID)
		}
		c.byID[g.ID] = g
		c.graphs = append(c.graphs, g)
	}
	return c, nil
}

// Load builds a catalog from the graphs of every loader, in order.
func Load(ctx context.Context, loaders ...ports.GraphLoader) (*Catalog, error) {
	var all []*domain.ComplaintGraph
	for _, l := range loaders {
		graphs, err := l.LoadGraphs(ctx)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		all = append(all, graphs...)
	}
	return New(all...)
}

// Default returns the catalog of bundled graphs.
func Default() *Catalog {
	c, err := New(Bundled()...)
	if err != nil {
		panic(err)
	}
	return c
}

// WithDefault returns a copy of the catalog that falls back to id.
func (c *Catalog) WithDefault(id string) *Catalog {
	cp := *c
	cp.defaultID = id
	return &cp
}

// Graph looks a complaint up by id first, then by display name
// (case-insensitive).
func (c *Catalog) Graph(key string) (*domain.ComplaintGraph, error) {
	key = strings.TrimSpace(key)
	if g, ok := c.byID[key]; ok {
		return g, nil
	}
	if g, ok := c.FindByName(key); ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrComplaintNotFound, key)
}

// GraphOrDefault looks key up and falls back to the default complaint.
// fellBack reports whether the fallback was used.
func (c *Catalog) GraphOrDefault(key string) (g *domain.ComplaintGraph, fellBack bool, err error) {
	g, err = c.Graph(key)
	if err == nil {
		return g, false, nil
	}
	g, derr := c.Graph(c.defaultID)
	if derr != nil {
		return nil, false, fmt.Errorf("default complaint: %w", derr)
	}
	return g, true, nil
}

// FindByName returns the graph whose display name matches name.
func (c *Catalog) FindByName(name string) (*domain.ComplaintGraph, bool) {
	name = strings.TrimSpace(name)
	for _, g := range c.graphs {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return nil, false
}

// Graphs returns every graph in catalog order.
func (c *Catalog) Graphs() []*domain.ComplaintGraph {
	return append([]*domain.ComplaintGraph(nil), c.graphs...)
}

// LoadGraphs implements ports.GraphLoader so a catalog can seed another.
func (c *Catalog) LoadGraphs(_ context.Context) ([]*domain.ComplaintGraph, error) {
	return c.Graphs(), nil
}

// Complaint is an entry of the complaint picker.
type Complaint struct {
	Name string `json:"name"`
	// GraphID is the graph the interview will use. Fallback reports
	// whether that is the default graph rather than a dedicated one.
	GraphID  string `json:"graph_id"`
	Fallback bool   `json:"fallback"`
}

// Complaints lists the common complaints followed by any catalog graph
// not among them, each resolved to the graph its interview will use.
func (c *Catalog) Complaints() []Complaint {
	seen := make(map[string]bool)
	var out []Complaint
	add := func(name string) {
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		g, fellBack, err := c.GraphOrDefault(name)
		if err != nil {
			return
		}
		out = append(out, Complaint{Name: name, GraphID: g.ID, Fallback: fellBack})
	}
	for _, name := range CommonComplaints {
		add(name)
	}
	for _, g := range c.graphs {
		add(g.Name)
	}
	return out
}
