// Package mcp exposes interviews as Model Context Protocol tools so an
// assistant can take a history on behalf of a clinician.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/logging"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/presentation/graph"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
)

const complaintsURI = "scribe://complaints"

// ComplaintList is the result of list_complaints.
type ComplaintList struct {
	Complaints []catalog.Complaint `json:"complaints" jsonschema_description:"Complaints offered by the picker and the graph each one uses"`
}

// GraphResult is the result of get_graph.
type GraphResult struct {
	Graph   *domain.ComplaintGraph `json:"graph" jsonschema_description:"The complaint's question graph"`
	Mermaid string                 `json:"mermaid" jsonschema_description:"Mermaid flowchart of the graph"`
}

// SessionResult describes an interview after a tool call.
type SessionResult struct {
	SessionID string         `json:"session_id" jsonschema_description:"Session to pass to answer and summary"`
	Status    domain.Status  `json:"status" jsonschema_description:"awaiting_answer or done"`
	Question  *runner.Prompt `json:"question,omitempty" jsonschema_description:"The question to ask next, absent once done"`
	Progress  int            `json:"progress" jsonschema_description:"Estimated completion percentage"`
}

// StartArgs are the arguments of start_interview.
type StartArgs struct {
	FirstName   string `mapstructure:"first_name"`
	LastName    string `mapstructure:"last_name"`
	Age         int    `mapstructure:"age"`
	Gender      string `mapstructure:"gender"`
	ContactInfo string `mapstructure:"contact_info"`
	DateOfVisit string `mapstructure:"date_of_visit"`
	Complaint   string `mapstructure:"complaint"`
}

// AnswerArgs are the arguments of answer.
type AnswerArgs struct {
	SessionID  string `mapstructure:"session_id"`
	QuestionID string `mapstructure:"question_id"`
	Value      any    `mapstructure:"value"`
}

// Server wraps an Interviewer and exposes it as an MCP server.
type Server struct {
	interviewer *runner.Interviewer
	mcpServer   *server.MCPServer
	logger      *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server instance.
func NewServer(interviewer *runner.Interviewer, version string, opts ...Option) *Server {
	s := &Server{
		interviewer: interviewer,
		mcpServer:   server.NewMCPServer("scribe-mcp", version, server.WithToolCapabilities(false)),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_complaints",
		mcp.WithDescription("List the chief complaints an interview can be started for."),
		mcp.WithOutputSchema[ComplaintList](),
	), mcp.NewStructuredToolHandler(s.handleListComplaints))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the question graph of a complaint, by id or display name."),
		mcp.WithString("complaint", mcp.Required(), mcp.Description("Complaint id or display name")),
		mcp.WithOutputSchema[GraphResult](),
	), mcp.NewStructuredToolHandler(s.handleGetGraph))

	s.mcpServer.AddTool(mcp.NewTool("start_interview",
		mcp.WithDescription("Register the patient's demographics and start the history for a chief complaint. Complaints without a dedicated question set use the default one."),
		mcp.WithString("first_name", mcp.Required()),
		mcp.WithString("last_name", mcp.Required()),
		mcp.WithNumber("age", mcp.Required()),
		mcp.WithString("gender", mcp.Required()),
		mcp.WithString("complaint", mcp.Required(), mcp.Description("Chief complaint, e.g. \"Chest Pain\"")),
		mcp.WithString("date_of_visit", mcp.Description("YYYY-MM-DD, defaults to today")),
		mcp.WithString("contact_info"),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("answer",
		mcp.WithDescription("Answer the current question of an interview, or correct an earlier answer by passing question_id."),
		mcp.WithString("session_id", mcp.Required()),
		mcp.WithString("value", mcp.Required(), mcp.Description("The patient's answer. Choices may be given by text or 1-based number.")),
		mcp.WithString("question_id", mcp.Description("Earlier question to correct (optional)")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleAnswer))

	s.mcpServer.AddTool(mcp.NewTool("summary",
		mcp.WithDescription("Generate the narrative history note for an interview."),
		mcp.WithString("session_id", mcp.Required()),
		mcp.WithOutputSchema[runner.Summary](),
	), mcp.NewStructuredToolHandler(s.handleSummary))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(complaintsURI, "Complaint catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.interviewer.Catalog().Complaints())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: complaintsURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func (s *Server) handleListComplaints(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (ComplaintList, error) {
	return ComplaintList{Complaints: s.interviewer.Catalog().Complaints()}, nil
}

func (s *Server) handleGetGraph(_ context.Context, _ mcp.CallToolRequest, args map[string]any) (GraphResult, error) {
	complaint, _ := args["complaint"].(string)
	g, err := s.interviewer.Catalog().Graph(complaint)
	if err != nil {
		return GraphResult{}, err
	}
	return GraphResult{Graph: g, Mermaid: graph.GenerateMermaid(g, nil)}, nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in StartArgs
	if err := decode(args, &in); err != nil {
		return SessionResult{}, err
	}
	record := domain.PatientRecord{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Age:         in.Age,
		Gender:      in.Gender,
		ContactInfo: in.ContactInfo,
		DateOfVisit: in.DateOfVisit,
	}
	if err := record.Validate(); err != nil {
		return SessionResult{}, err
	}
	if in.Complaint == "" {
		return SessionResult{}, fmt.Errorf("complaint is required")
	}

	sess, err := s.interviewer.Begin(ctx, record, in.Complaint)
	if err != nil {
		return SessionResult{}, err
	}
	return s.result(ctx, sess.ID)
}

func (s *Server) handleAnswer(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in AnswerArgs
	if err := decode(args, &in); err != nil {
		return SessionResult{}, err
	}

	var err error
	if in.QuestionID != "" {
		_, err = s.interviewer.Edit(ctx, in.SessionID, in.QuestionID, in.Value)
	} else {
		_, err = s.interviewer.Submit(ctx, in.SessionID, in.Value)
	}
	if err != nil {
		s.logger.Debug("MCP answer rejected", "session_id", in.SessionID, "err", err)
		return SessionResult{}, err
	}
	return s.result(ctx, in.SessionID)
}

func (s *Server) handleSummary(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (runner.Summary, error) {
	id, _ := args["session_id"].(string)
	sum, err := s.interviewer.Summary(ctx, id)
	if err != nil {
		return runner.Summary{}, err
	}
	return *sum, nil
}

func (s *Server) result(ctx context.Context, sessionID string) (SessionResult, error) {
	sess, q, err := s.interviewer.Current(ctx, sessionID)
	if err != nil {
		return SessionResult{}, err
	}
	progress := s.interviewer.Progress(sess)
	res := SessionResult{SessionID: sess.ID, Status: sess.Status, Progress: progress}
	if q != nil {
		p := runner.NewPrompt(sess, q, progress)
		res.Question = &p
	}
	return res, nil
}

// decode maps loosely typed tool arguments (numbers arrive as float64)
// onto out.
func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
