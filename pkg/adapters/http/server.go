// Package http exposes interviews over a JSON REST API built on chi.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/presentation/graph"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/auth"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/export"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
)

// maxBodySize bounds request bodies; single answers are bounded separately
// by the sanitizer.
const maxBodySize = 64 << 10

// Server serves the interview API.
type Server struct {
	interviewer *runner.Interviewer
	streams     *StreamManager
	spec        *openapi3.T
	provider    ports.SessionProvider
	metrics     http.Handler
	pdf         *export.PDF
	logger      *slog.Logger
	version     string
	origins     []string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuth requires a bearer token resolved by provider on every
// non-public route, and enforces clinician/admin roles.
func WithAuth(provider ports.SessionProvider) Option {
	return func(s *Server) { s.provider = provider }
}

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithPDF overrides the PDF renderer used for summary exports.
func WithPDF(pdf *export.PDF) Option {
	return func(s *Server) {
		if pdf != nil {
			s.pdf = pdf
		}
	}
}

// WithAllowedOrigins restricts CORS to origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithVersion sets the application version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// NewServer creates a server around interviewer.
func NewServer(ctx context.Context, interviewer *runner.Interviewer, opts ...Option) (*Server, error) {
	spec, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	s := &Server{
		interviewer: interviewer,
		spec:        spec,
		pdf:         export.NewPDF(),
		logger:      logging.NewNop(),
		version:     "dev",
		origins:     []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s, nil
}

// NewHandler creates the HTTP handler for interviewer.
func NewHandler(ctx context.Context, interviewer *runner.Interviewer, opts ...Option) (http.Handler, error) {
	s, err := NewServer(ctx, interviewer, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Streams returns the SSE fan-out of the server.
func (s *Server) Streams() *StreamManager { return s.streams }

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if s.provider != nil {
		r.Use(auth.Middleware(s.provider))
	}

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", s.getSpec)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(domain.RoleClinician))

		r.Get("/complaints", s.listComplaints)
		r.Get("/complaints/{id}", s.getComplaint)
		r.Get("/complaints/{id}/mermaid", s.getComplaintMermaid)

		r.Get("/sessions", s.listSessions)
		r.Post("/sessions", s.startSession)
		r.Get("/sessions/{id}", s.getSession)
		r.Delete("/sessions/{id}", s.deleteSession)
		r.Post("/sessions/{id}/answers", s.submitAnswer)
		r.Put("/sessions/{id}/answers/{questionID}", s.editAnswer)
		r.Get("/sessions/{id}/summary", s.getSummary)
		r.Get("/sessions/{id}/summary.pdf", s.getSummaryPDF)
		r.Get("/sessions/{id}/events", s.subscribeEvents)

		if s.interviewer.Records() != nil {
			r.Get("/patients", s.listPatients)
			r.Get("/patients/{id}", s.getPatient)
			r.With(s.requireRole(domain.RoleAdmin)).Delete("/patients/{id}", s.deletePatient)
		}
	})
	return r
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	if s.provider == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return auth.RequireRole(roles...)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start),
		)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, _ *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "scribe-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

func (s *Server) getSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(rawSpec)
}

// -- Complaints --

func (s *Server) listComplaints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.interviewer.Catalog().Complaints())
}

func (s *Server) getComplaint(w http.ResponseWriter, r *http.Request) {
	g, err := s.interviewer.Catalog().Graph(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) getComplaintMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.interviewer.Catalog().Graph(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session_id"); id != "" {
		sess, err := s.interviewer.Session(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if sess.ComplaintID == g.ID {
			overlay = graph.OverlayFromSession(sess)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(g, overlay)))
}

// -- Sessions --

// SessionView is a session together with the question awaiting an answer.
type SessionView struct {
	Session  *domain.Session  `json:"session"`
	Question *domain.Question `json:"question,omitempty"`
	Progress int              `json:"progress"`
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	Patient   domain.PatientRecord `json:"patient"`
	Complaint string               `json:"complaint"`
}

// AnswerRequest is the body of the answer endpoints. Value may be a string,
// number or boolean.
type AnswerRequest struct {
	Value any `json:"value"`
}

func (s *Server) view(ctx context.Context, sess *domain.Session) (*SessionView, error) {
	sess, q, err := s.interviewer.Current(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: sess, Question: q, Progress: s.interviewer.Progress(sess)}, nil
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, sess *domain.Session) {
	v, err := s.view(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.interviewer.Sessions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	complaint := body.Complaint
	if complaint == "" {
		complaint = body.Patient.ChiefComplaint
	}
	if complaint == "" {
		s.badRequest(w, "complaint is required")
		return
	}
	if err := body.Patient.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.interviewer.Begin(r.Context(), body.Patient, complaint)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.interviewer.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.interviewer.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, func(ctx context.Context, id string, value any) (*domain.Session, error) {
		return s.interviewer.Submit(ctx, id, value)
	})
}

func (s *Server) editAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")
	s.answer(w, r, func(ctx context.Context, id string, value any) (*domain.Session, error) {
		return s.interviewer.Edit(ctx, id, questionID, value)
	})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, apply func(context.Context, string, any) (*domain.Session, error)) {
	id := chi.URLParam(r, "id")
	var body AnswerRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Value == nil {
		s.badRequest(w, "value is required")
		return
	}

	before, err := s.interviewer.Session(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	after, err := apply(r.Context(), id, body.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(before, after)
	s.respondSession(w, r, http.StatusOK, after)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.interviewer.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) getSummaryPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sum, err := s.interviewer.Summary(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.interviewer.Session(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	doc := export.Document{Title: sess.Record.FullName(), Note: sum.Text, HasRedFlags: sum.HasRedFlags}
	if err := s.pdf.Write(&buf, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "summary-"+id+".pdf"))
	_, _ = w.Write(buf.Bytes())
}

// -- Patients --

func (s *Server) listPatients(w http.ResponseWriter, r *http.Request) {
	records, err := s.interviewer.Records().ListPatients(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.PatientRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getPatient(w http.ResponseWriter, r *http.Request) {
	record, err := s.interviewer.Records().GetPatient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) deletePatient(w http.ResponseWriter, r *http.Request) {
	if err := s.interviewer.Records().DeletePatient(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		s.badRequest(w, "invalid request body")
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}
