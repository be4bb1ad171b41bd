package domain

// Transitions returns the follow-up question ids for an answer value.
// An exact key match wins over DefaultTransition; no match yields nil.
func (q *Question) Transitions(value string) []string {
	if q == nil || q.Next == nil {
		return nil
	}
	if next, ok := q.Next[value]; ok {
		return next
	}
	return q.Next[DefaultTransition]
}

// NextQuestionID resolves the single question that follows value.
// Only the first entry of a multi-entry list is followed; ok is false when
// the path ends here.
func (q *Question) NextQuestionID(value string) (id string, ok bool) {
	next := q.Transitions(value)
	if len(next) == 0 {
		return "", false
	}
	return next[0], true
}

// Targets returns every question id referenced by the transition table,
// deduplicated, in a stable order (default first, then keys in option order).
func (q *Question) Targets() []string {
	if q == nil || len(q.Next) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if id != "" && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	add(q.Next[DefaultTransition])
	for _, opt := range q.Choices() {
		add(q.Next[opt])
	}
	for _, key := range sortedKeys(q.Next) {
		add(q.Next[key])
	}
	return out
}
