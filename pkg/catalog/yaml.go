package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// graphDocument is the YAML shape of one complaint graph. Questions are a
// list so that the authoring order survives decoding.
type graphDocument struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	InitialQuestion string            `yaml:"initial_question"`
	Questions       []domain.Question `yaml:"questions"`
}

func (d *graphDocument) graph() (*domain.ComplaintGraph, error) {
	g := &domain.ComplaintGraph{
		ID:              d.ID,
		Name:            d.Name,
		InitialQuestion: d.InitialQuestion,
		Questions:       make(map[string]*domain.Question, len(d.Questions)),
	}
	for i := range d.Questions {
		q := d.Questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("complaint %q: question %d has no id", d.ID, i)
		}
		if _, dup := g.Questions[q.ID]; dup {
			return nil, fmt.Errorf("complaint %q: duplicate question id %q", d.ID, q.ID)
		}
		if q.Type == "" {
			q.Type = domain.QuestionText
		}
		g.Questions[q.ID] = &q
		g.Order = append(g.Order, q.ID)
	}
	if g.InitialQuestion == "" && len(g.Order) > 0 {
		g.InitialQuestion = g.Order[0]
	}
	if err := g.Check(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadYAML decodes every complaint graph in r. Multiple graphs may be
// separated by "---".
func LoadYAML(r io.Reader) ([]*domain.ComplaintGraph, error) {
	dec := yaml.NewDecoder(r)
	var out []*domain.ComplaintGraph
	for {
		var doc graphDocument
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode complaint graph: %w", err)
		}
		if doc.ID == "" && len(doc.Questions) == 0 {
			continue
		}
		g, err := doc.graph()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
}

// MarshalYAML encodes a graph in the format LoadYAML reads.
func MarshalYAML(g *domain.ComplaintGraph) ([]byte, error) {
	doc := graphDocument{
		ID:              g.ID,
		Name:            g.Name,
		InitialQuestion: g.InitialQuestion,
	}
	for _, id := range g.QuestionIDs() {
		doc.Questions = append(doc.Questions, *g.Questions[id])
	}
	return yaml.Marshal(doc)
}

// DirLoader loads every *.yaml and *.yml file of a directory, in file name order.
type DirLoader struct {
	Dir string
}

// LoadGraphs implements ports.GraphLoader.
func (l DirLoader) LoadGraphs(ctx context.Context) ([]*domain.ComplaintGraph, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []*domain.ComplaintGraph
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		graphs, err := loadFile(filepath.Join(l.Dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, graphs...)
	}
	return out, nil
}

func loadFile(path string) ([]*domain.ComplaintGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	graphs, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return graphs, nil
}
