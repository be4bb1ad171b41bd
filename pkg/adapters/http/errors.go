package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var answerErr *domain.AnswerError
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrComplaintNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPatientNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.As(err, &answerErr),
		errors.As(err, &validationErr),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInterviewDone),
		errors.Is(err, domain.ErrInterviewNotStarted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	// Graph integrity errors are authoring bugs.
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error      string `json:"error"`
	QuestionID string `json:"question_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var answerErr *domain.AnswerError
	if errors.As(err, &answerErr) {
		resp.QuestionID = answerErr.QuestionID
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if !errors.As(err, new(*domain.GraphIntegrityError)) {
			resp.Error = http.StatusText(status)
		}
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
