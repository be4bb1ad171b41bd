package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// GraphOverlay contains session state to highlight on the graph.
type GraphOverlay struct {
	VisitedQuestions []string
	CurrentQuestion  string
}

// OverlayFromSession highlights the questions a session has visited.
func OverlayFromSession(s *domain.Session) *GraphOverlay {
	if s == nil {
		return nil
	}
	return &GraphOverlay{VisitedQuestions: s.History, CurrentQuestion: s.CurrentQuestionID}
}

// GenerateMermaid produces a Mermaid flowchart of a complaint graph.
// Shapes follow the question:
//   - Initial question: ((Circle))
//   - Red flag: {{Hexagon}}
//   - Yes/No: {Rhombus}
//   - Anything else: [/Parallelogram/]
//
// Only the first target of each transition is drawn since it is the only one
// an interview follows. The default transition is unlabeled.
func GenerateMermaid(g *domain.ComplaintGraph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if g == nil {
		return sb.String()
	}

	var flagged []string
	for _, id := range g.QuestionIDs() {
		q, _ := g.Question(id)
		safeID := sanitizeMermaidID(id)

		opener, closer := "[/", "/]"
		switch {
		case id == g.InitialQuestion:
			opener, closer = "((", "))"
		case q.IsRedFlag():
			opener, closer = "{{", "}}"
		case q.Type == domain.QuestionYesNo:
			opener, closer = "{", "}"
		}
		if q.IsRedFlag() {
			flagged = append(flagged, safeID)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, id, closer)

		for _, key := range transitionKeys(q) {
			next := q.Next[key]
			if len(next) == 0 {
				continue
			}
			safeTo := sanitizeMermaidID(next[0])
			if key == domain.DefaultTransition {
				fmt.Fprintf(&sb, "    %s --> %s\n", safeID, safeTo)
				continue
			}
			label := strings.ReplaceAll(key, "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, safeTo)
		}
	}

	if len(flagged) > 0 {
		sb.WriteString("\n    classDef redflag fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s redflag;\n", strings.Join(flagged, ","))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedQuestions {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" && id != overlay.CurrentQuestion {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentQuestion != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentQuestion))
		}
	}

	return sb.String()
}

// transitionKeys orders answer keys by option order, then the remaining
// keys alphabetically, with the default last.
func transitionKeys(q *domain.Question) []string {
	seen := make(map[string]bool, len(q.Next))
	var keys []string
	for _, opt := range q.Choices() {
		if _, ok := q.Next[opt]; ok && !seen[opt] {
			seen[opt] = true
			keys = append(keys, opt)
		}
	}
	var rest []string
	for k := range q.Next {
		if !seen[k] && k != domain.DefaultTransition {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)
	if _, ok := q.Next[domain.DefaultTransition]; ok {
		keys = append(keys, domain.DefaultTransition)
	}
	return keys
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
