package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// Event types emitted by JSONHandler, one JSON object per line.
const (
	EventQuestion = "question"
	EventSystem   = "system"
	EventSummary  = "summary"
)

// JSONEvent is one line of JSONHandler output.
type JSONEvent struct {
	Type     string   `json:"type"`
	Question *Prompt  `json:"question,omitempty"`
	Message  string   `json:"message,omitempty"`
	Summary  *Summary `json:"summary,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Ask(_ context.Context, p Prompt) error {
	return h.Encoder.Encode(JSONEvent{Type: EventQuestion, Question: &p})
}

// Input reads one line. A JSON string or number is unwrapped; anything
// else is returned as raw text.
func (h *JSONHandler) Input(_ context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val any
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		switch v := val.(type) {
		case string:
			return SanitizeInput(v)
		case float64, bool:
			return text, nil
		}
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(_ context.Context, msg string) error {
	return h.Encoder.Encode(JSONEvent{Type: EventSystem, Message: msg})
}

func (h *JSONHandler) Summary(_ context.Context, s *Summary) error {
	return h.Encoder.Encode(JSONEvent{Type: EventSummary, Summary: s})
}
