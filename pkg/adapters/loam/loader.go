package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// Loader adapts a Loam repository of markdown documents to ports.GraphLoader.
// Each document holds one complaint graph in its frontmatter.
type Loader struct {
	Repo *loam.TypedRepository[GraphMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[GraphMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[GraphMetadata](repo)), nil
}

// LoadGraphs lists every document and decodes it, ordered by complaint id.
func (l *Loader) LoadGraphs(ctx context.Context) ([]*domain.ComplaintGraph, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	graphs := make([]*domain.ComplaintGraph, 0, len(docs))
	for _, doc := range docs {
		g, err := decodeGraph(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[g.ID]; ok {
			return nil, fmt.Errorf("collision detected: complaint '%s' is defined in both '%s' and '%s'", g.ID, existing, doc.ID)
		}
		seen[g.ID] = doc.ID
		graphs = append(graphs, g)
	}

	sort.Slice(graphs, func(i, j int) bool { return graphs[i].ID < graphs[j].ID })
	return graphs, nil
}

func decodeGraph(docID string, meta GraphMetadata) (*domain.ComplaintGraph, error) {
	id := meta.ID
	if id == "" {
		id = trimExtension(docID)
	}

	g := &domain.ComplaintGraph{
		ID:              id,
		Name:            meta.Name,
		InitialQuestion: meta.InitialQuestion,
		Questions:       make(map[string]*domain.Question, len(meta.Questions)),
	}

	for i, raw := range meta.Questions {
		q, err := decodeQuestion(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: question %d: %w", docID, i, err)
		}
		if _, dup := g.Questions[q.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate question id %q", docID, q.ID)
		}
		g.Questions[q.ID] = q
		g.Order = append(g.Order, q.ID)
	}

	if g.InitialQuestion == "" && len(g.Order) > 0 {
		g.InitialQuestion = g.Order[0]
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}
	return g, nil
}

func decodeQuestion(raw any) (*domain.Question, error) {
	var meta QuestionMetadata
	if err := decode(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode question: %w", err)
	}
	if meta.ID == "" {
		return nil, fmt.Errorf("question missing id")
	}

	q := &domain.Question{
		ID:      meta.ID,
		Text:    meta.Text,
		Type:    domain.QuestionType(meta.Type),
		Options: meta.Options,
	}
	if q.Type == "" {
		q.Type = domain.QuestionText
		if len(q.Options) > 0 {
			q.Type = domain.QuestionMultipleChoice
		}
	}

	if len(meta.Next) > 0 || meta.To != "" {
		q.Next = make(map[string][]string, len(meta.Next)+1)
	}
	for value, targets := range meta.Next {
		var list []string
		if err := decode(targets, &list); err != nil {
			return nil, fmt.Errorf("%s: next_questions.%s: %w", meta.ID, value, err)
		}
		q.Next[value] = list
	}
	if meta.To != "" {
		if _, ok := q.Next[domain.DefaultTransition]; ok {
			return nil, fmt.Errorf("%s: both 'to' and next_questions.default are set", meta.ID)
		}
		q.Next[domain.DefaultTransition] = []string{meta.To}
	}

	if meta.RedFlag != nil {
		q.RedFlag = &domain.RedFlag{
			Note:      meta.RedFlag.Note,
			Negatives: meta.RedFlag.Negatives,
		}
	}
	return q, nil
}

// decode runs mapstructure with weak typing so a single string decodes
// into a one-element list.
func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
