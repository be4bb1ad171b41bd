package scribe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	loamAdapter "github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/loam"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/narrative"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/session"
)

// Engine is the high-level entry point for the library. It bundles the
// complaint catalog, the interview engine and the narrative generator.
type Engine struct {
	core       *interview.Engine
	catalog    *catalog.Catalog
	generator  *narrative.Generator
	loader     ports.GraphLoader
	catalogDir string
	defaultID  string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader replaces the bundled complaint graphs with the graphs of l.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCatalogDir loads complaint graphs from a Loam repository of markdown
// documents instead of the bundled set.
func WithCatalogDir(dir string) Option {
	return func(e *Engine) {
		e.catalogDir = dir
	}
}

// WithDefaultComplaint sets the graph used for complaints without one.
func WithDefaultComplaint(id string) Option {
	return func(e *Engine) {
		e.defaultID = id
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used for timestamps and onset arithmetic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes an Engine. Without WithLoader or WithCatalogDir it serves
// the bundled complaint graphs.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	eng := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if eng.catalogDir != "" {
			l, err := loamAdapter.Open(eng.catalogDir)
			if err != nil {
				return nil, err
			}
			eng.loader = l
		} else {
			eng.loader = catalog.BuiltinLoader{}
		}
	}

	cat, err := catalog.Load(ctx, eng.loader)
	if err != nil {
		return nil, err
	}
	if eng.defaultID != "" {
		if _, err := cat.Graph(eng.defaultID); err != nil {
			return nil, fmt.Errorf("default complaint: %w", err)
		}
		cat = cat.WithDefault(eng.defaultID)
	}
	eng.catalog = cat

	eng.core = interview.NewEngine(
		interview.WithLifecycleHooks(eng.hooks),
		interview.WithLogger(eng.logger),
		interview.WithClock(eng.now),
	)
	eng.generator = narrative.New(cat, narrative.WithClock(eng.now))
	return eng, nil
}

// LoadGraph finds a complaint graph by id, then by display name.
func (e *Engine) LoadGraph(_ context.Context, complaint string) (*domain.ComplaintGraph, error) {
	return e.catalog.Graph(complaint)
}

// LoadGraphOrDefault is LoadGraph falling back to the default complaint.
// fellBack reports whether the fallback was used.
func (e *Engine) LoadGraphOrDefault(_ context.Context, complaint string) (*domain.ComplaintGraph, bool, error) {
	return e.catalog.GraphOrDefault(complaint)
}

// Start moves a not-started session to the graph's initial question.
// Sessions already under way are returned unchanged.
func (e *Engine) Start(ctx context.Context, s *domain.Session, g *domain.ComplaintGraph) (*domain.Session, error) {
	return e.core.Start(ctx, s, g)
}

// Answer records value for the current question and advances.
func (e *Engine) Answer(ctx context.Context, s *domain.Session, g *domain.ComplaintGraph, value any) (*domain.Session, error) {
	return e.core.Answer(ctx, s, g, value)
}

// AnswerQuestion edits an earlier answer without moving the cursor.
func (e *Engine) AnswerQuestion(ctx context.Context, s *domain.Session, g *domain.ComplaintGraph, questionID string, value any) (*domain.Session, error) {
	return e.core.AnswerQuestion(ctx, s, g, questionID, value)
}

// Progress estimates completion of s as a percentage.
func (e *Engine) Progress(g *domain.ComplaintGraph, s *domain.Session) int {
	return e.core.Progress(g, s)
}

// Generate renders the narrative note for record.
func (e *Engine) Generate(record *domain.PatientRecord) string {
	return e.generator.Generate(record)
}

// RedFlags returns the red-flag notes raised by record's answers.
func (e *Engine) RedFlags(record *domain.PatientRecord) []string {
	return e.generator.RedFlags(record)
}

// Catalog returns the complaint catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Loader returns the GraphLoader the catalog was built from.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}

// Interviewer wires a session-managing Interviewer over this engine.
func (e *Engine) Interviewer(sessions *session.Manager, opts ...runner.InterviewerOption) *runner.Interviewer {
	base := []runner.InterviewerOption{
		runner.WithEngine(e.core),
		runner.WithGenerator(e.generator),
		runner.WithInterviewerLogger(e.logger),
	}
	return runner.NewInterviewer(e.catalog, sessions, append(base, opts...)...)
}
