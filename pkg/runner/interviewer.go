package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/narrative"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/session"
)

// Summary is the narrative of a session together with its alert state.
type Summary struct {
	SessionID   string   `json:"session_id"`
	Text        string   `json:"summary"`
	HasRedFlags bool     `json:"has_red_flags"`
	RedFlags    []string `json:"red_flags,omitempty"`
	Progress    int      `json:"progress"`
	Complete    bool     `json:"complete"`
}

// Interviewer is the service layer shared by every frontend. It loads the
// session, runs one engine step under the session lock, persists the result
// and, when a RecordStore is configured, mirrors answers onto the patient.
type Interviewer struct {
	engine    ports.InterviewEngine
	sessions  *session.Manager
	catalog   *catalog.Catalog
	generator *narrative.Generator
	records   ports.RecordStore
	logger    *slog.Logger
	newID     func() string
}

// InterviewerOption configures an Interviewer.
type InterviewerOption func(*Interviewer)

// WithEngine overrides the interview engine.
func WithEngine(engine ports.InterviewEngine) InterviewerOption {
	return func(i *Interviewer) { i.engine = engine }
}

// WithRecordStore mirrors patient records and final answers into store.
func WithRecordStore(store ports.RecordStore) InterviewerOption {
	return func(i *Interviewer) { i.records = store }
}

// WithGenerator overrides the narrative generator.
func WithGenerator(g *narrative.Generator) InterviewerOption {
	return func(i *Interviewer) { i.generator = g }
}

// WithInterviewerLogger configures the structured logger.
func WithInterviewerLogger(logger *slog.Logger) InterviewerOption {
	return func(i *Interviewer) { i.logger = logger }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) InterviewerOption {
	return func(i *Interviewer) { i.newID = fn }
}

// NewInterviewer wires an Interviewer over a catalog and a session manager.
func NewInterviewer(cat *catalog.Catalog, sessions *session.Manager, opts ...InterviewerOption) *Interviewer {
	i := &Interviewer{
		catalog:  cat,
		sessions: sessions,
		logger:   logging.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.engine == nil {
		i.engine = interview.NewEngine(interview.WithLogger(i.logger))
	}
	if i.generator == nil {
		i.generator = narrative.New(cat)
	}
	return i
}

// Catalog returns the complaint catalog.
func (i *Interviewer) Catalog() *catalog.Catalog { return i.catalog }

// Generator returns the narrative generator.
func (i *Interviewer) Generator() *narrative.Generator { return i.generator }

// Records returns the configured record store, or nil.
func (i *Interviewer) Records() ports.RecordStore { return i.records }

// Begin creates a session for record and starts the interview for the named
// complaint. Complaints without a graph use the catalog default.
func (i *Interviewer) Begin(ctx context.Context, record domain.PatientRecord, complaint string) (*domain.Session, error) {
	graph, fellBack, err := i.catalog.GraphOrDefault(complaint)
	if err != nil {
		return nil, err
	}
	if fellBack {
		i.logger.Info("complaint has no graph, using default", "complaint", complaint, "graph", graph.ID)
	}

	if i.records != nil && record.ID == "" {
		if err := i.records.CreatePatient(ctx, &record); err != nil {
			return nil, fmt.Errorf("failed to create patient: %w", err)
		}
	}

	id := i.newID()
	if _, err := i.sessions.LoadOrStart(ctx, id, record); err != nil {
		return nil, err
	}

	s, err := i.sessions.Update(ctx, id, func(s *domain.Session) (*domain.Session, error) {
		return i.engine.Start(ctx, s, graph)
	})
	if err != nil {
		_ = i.sessions.Delete(ctx, id)
		return nil, err
	}
	i.logger.Info("interview started", "session_id", id, "complaint", graph.ID, "patient_id", record.ID)
	return s, nil
}

// Submit answers the current question.
func (i *Interviewer) Submit(ctx context.Context, sessionID string, value any) (*domain.Session, error) {
	value, err := SanitizeAnswer(value)
	if err != nil {
		return nil, err
	}
	s, err := i.step(ctx, sessionID, func(s *domain.Session, g *domain.ComplaintGraph) (*domain.Session, error) {
		return i.engine.Answer(ctx, s, g, value)
	})
	if err != nil {
		return nil, err
	}
	if s.Done() {
		i.logger.Info("interview completed", "session_id", sessionID, "answers", s.Record.Answers.Len())
	}
	return s, nil
}

// Edit changes the answer of a question already shown in the session.
func (i *Interviewer) Edit(ctx context.Context, sessionID, questionID string, value any) (*domain.Session, error) {
	value, err := SanitizeAnswer(value)
	if err != nil {
		return nil, err
	}
	return i.step(ctx, sessionID, func(s *domain.Session, g *domain.ComplaintGraph) (*domain.Session, error) {
		if _, ok := g.Question(questionID); !ok {
			return nil, fmt.Errorf("%w: %q in %s", domain.ErrQuestionNotFound, questionID, g.ID)
		}
		return i.engine.AnswerQuestion(ctx, s, g, questionID, value)
	})
}

func (i *Interviewer) step(ctx context.Context, sessionID string, fn func(*domain.Session, *domain.ComplaintGraph) (*domain.Session, error)) (*domain.Session, error) {
	s, err := i.sessions.Update(ctx, sessionID, func(s *domain.Session) (*domain.Session, error) {
		g, err := i.catalog.Graph(s.ComplaintID)
		if err != nil {
			return nil, err
		}
		return fn(s, g)
	})
	if err != nil {
		return nil, err
	}
	if err := i.mirror(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// mirror copies the answers of a finished interview onto the patient record.
func (i *Interviewer) mirror(ctx context.Context, s *domain.Session) error {
	if i.records == nil || !s.Done() || s.Record.ID == "" {
		return nil
	}
	err := i.records.SaveAnswers(ctx, s.Record.ID, s.Record.ChiefComplaint, s.Record.Answers)
	if errors.Is(err, domain.ErrPatientNotFound) {
		i.logger.Warn("patient record missing, answers kept on session only", "session_id", s.ID, "patient_id", s.Record.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}
	return nil
}

// Current returns the session and the question awaiting an answer, which is
// nil once the interview is done.
func (i *Interviewer) Current(ctx context.Context, sessionID string) (*domain.Session, *domain.Question, error) {
	s, err := i.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.Status != domain.StatusAwaitingAnswer {
		return s, nil, nil
	}
	g, err := i.catalog.Graph(s.ComplaintID)
	if err != nil {
		return nil, nil, err
	}
	q, ok := g.Question(s.CurrentQuestionID)
	if !ok {
		return nil, nil, &domain.GraphIntegrityError{
			ComplaintID: g.ID,
			QuestionID:  s.CurrentQuestionID,
			Reason:      "current question is not defined",
		}
	}
	return s, q, nil
}

// Progress estimates completion of a session.
func (i *Interviewer) Progress(s *domain.Session) int {
	g, err := i.catalog.Graph(s.ComplaintID)
	if err != nil {
		return 0
	}
	return i.engine.Progress(g, s)
}

// Summary returns the narrative for a session. A missing summary is
// generated and stored back on the session record. When a RecordStore is
// configured the note of a finished interview is generated from the stored
// patient instead, so demographics masked in the session store never reach
// the patient's note.
func (i *Interviewer) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	s, err := i.sessions.Update(ctx, sessionID, func(s *domain.Session) (*domain.Session, error) {
		if s.Record.Summary == "" {
			s.Record.Summary = i.generator.Generate(&s.Record)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	text := s.Record.Summary
	if i.records != nil && s.Record.ID != "" && s.Done() {
		note, err := i.storeSummary(ctx, &s.Record)
		if err != nil {
			return nil, err
		}
		if note != "" {
			text = note
		}
	}

	flags := i.generator.RedFlags(&s.Record)
	return &Summary{
		SessionID:   s.ID,
		Text:        text,
		HasRedFlags: len(flags) > 0,
		RedFlags:    flags,
		Progress:    i.Progress(s),
		Complete:    s.Done(),
	}, nil
}

// storeSummary generates the note from the stored patient and saves it there.
// It returns "" when the patient no longer exists.
func (i *Interviewer) storeSummary(ctx context.Context, r *domain.PatientRecord) (string, error) {
	stored, err := i.records.GetPatient(ctx, r.ID)
	if errors.Is(err, domain.ErrPatientNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load patient: %w", err)
	}

	source := stored.Clone()
	if source.Answers.Len() == 0 {
		source.ChiefComplaint = r.ChiefComplaint
		source.Answers = r.Answers.Clone()
	}
	source.Summary = ""
	note := i.generator.Generate(source)
	if stored.Summary == note {
		return note, nil
	}
	stored.Summary = note
	if err := i.records.UpdatePatient(ctx, stored); err != nil {
		return "", fmt.Errorf("failed to store summary: %w", err)
	}
	return note, nil
}

// Abandon deletes the session.
func (i *Interviewer) Abandon(ctx context.Context, sessionID string) error {
	if _, err := i.sessions.Load(ctx, sessionID); err != nil {
		return err
	}
	return i.sessions.Delete(ctx, sessionID)
}

// Session loads a session without modifying it.
func (i *Interviewer) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return i.sessions.Load(ctx, sessionID)
}

// Sessions lists stored session ids.
func (i *Interviewer) Sessions(ctx context.Context) ([]string, error) {
	return i.sessions.List(ctx)
}
