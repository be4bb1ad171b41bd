package domain

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentQuestionID *string `json:"current_question_id,omitempty"`
	Status            *Status `json:"status,omitempty"`

	// Answers contains only changed or added answers, formatted as text.
	// Deleted answers are present with an empty value.
	Answers map[string]string `json:"answers,omitempty"`

	// History contains the questions appended since the previous snapshot.
	History *HistoryDelta `json:"history,omitempty"`

	ChiefComplaint *string `json:"chief_complaint,omitempty"`
}

// HistoryDelta represents changes to the history stack.
type HistoryDelta struct {
	Appended []string `json:"appended"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession.
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}

	if oldSession == nil || oldSession.CurrentQuestionID != newSession.CurrentQuestionID {
		if newSession.CurrentQuestionID != "" || oldSession != nil {
			id := newSession.CurrentQuestionID
			diff.CurrentQuestionID = &id
		}
	}
	if oldSession == nil || oldSession.Status != newSession.Status {
		status := newSession.Status
		diff.Status = &status
	}
	if oldSession == nil || oldSession.Record.ChiefComplaint != newSession.Record.ChiefComplaint {
		if cc := newSession.Record.ChiefComplaint; cc != "" || oldSession != nil {
			diff.ChiefComplaint = &cc
		}
	}

	diff.Answers = diffAnswers(oldSession, newSession)
	diff.History = diffHistory(oldSession, newSession)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old, new *Session) map[string]string {
	delta := make(map[string]string)
	newAnswers := new.Record.Answers

	if old == nil {
		newAnswers.Each(func(id string, v any) {
			delta[id] = FormatAnswer(v)
		})
	} else {
		oldAnswers := old.Record.Answers
		newAnswers.Each(func(id string, v any) {
			prev, ok := oldAnswers.Get(id)
			if !ok || FormatAnswer(prev) != FormatAnswer(v) {
				delta[id] = FormatAnswer(v)
			}
		})
		oldAnswers.Each(func(id string, _ any) {
			if !newAnswers.Has(id) {
				delta[id] = ""
			}
		})
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory assumes history is append-only.
func diffHistory(old, new *Session) *HistoryDelta {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return &HistoryDelta{Appended: append([]string(nil), new.History...)}
	}
	if len(new.History) > len(old.History) {
		return &HistoryDelta{Appended: append([]string(nil), new.History[len(old.History):]...)}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.CurrentQuestionID == nil &&
		d.Status == nil &&
		d.ChiefComplaint == nil &&
		len(d.Answers) == 0 &&
		d.History == nil
}
