package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Alert styles the red-flag banner. Nil prints it plain.
	Alert func(string) string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerAlert configures the red-flag banner style.
func WithTextHandlerAlert(alert func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Alert = alert
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff so a persistent read failure does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Ask(_ context.Context, p Prompt) error {
	fmt.Fprintf(h.Writer, "\n[%d%%] %s\n", p.Progress, p.Text)
	switch p.Type {
	case domain.QuestionMultipleChoice:
		for i, c := range p.Choices {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, c)
		}
	case domain.QuestionYesNo:
		fmt.Fprintln(h.Writer, "  (Yes/No)")
	case domain.QuestionDate:
		fmt.Fprintln(h.Writer, "  (YYYY-MM-DD)")
	case domain.QuestionNumber:
		fmt.Fprintln(h.Writer, "  (number)")
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(_ context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}

func (h *TextHandler) Summary(_ context.Context, s *Summary) error {
	if s.HasRedFlags {
		banner := "MEDICAL ALERT: red flag symptoms present"
		if h.Alert != nil {
			banner = h.Alert(banner)
		}
		fmt.Fprintf(h.Writer, "\n%s\n", banner)
	}

	output := s.Text
	if h.Renderer != nil {
		if rendered, err := h.Renderer(s.Text); err == nil {
			output = rendered
		}
	}
	fmt.Fprintf(h.Writer, "\n%s\n", strings.TrimSpace(output))
	return nil
}
