package interview

import "github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"

// progressCeiling is the highest estimate reported before the interview is done.
const progressCeiling = 90

// Progress is a heuristic completion estimate in [0,100]. Red-flag branches
// make the real path length unknown, so the estimate weighs answered
// questions against the default path length and never reports 100 until
// done is true. It is non-decreasing in answered.
func Progress(graph *domain.ComplaintGraph, answered int, done bool) int {
	if done {
		return 100
	}
	if answered <= 0 {
		return 0
	}
	total := EstimateLength(graph)
	pct := int(float64(answered) * 100 * 0.7 / float64(total))
	if pct > progressCeiling {
		pct = progressCeiling
	}
	return pct
}

// EstimateLength walks the graph from its initial question, following the
// default transition (or the first option's transition when there is no
// default), and returns the number of questions on that path. It is at
// least 1 and stops at the first repeated question.
func EstimateLength(graph *domain.ComplaintGraph) int {
	if graph == nil {
		return 1
	}
	seen := make(map[string]bool)
	id := graph.InitialQuestion
	n := 0
	for id != "" && !seen[id] {
		q, ok := graph.Question(id)
		if !ok {
			break
		}
		seen[id] = true
		n++
		id = likelyNext(q)
	}
	if n == 0 {
		return 1
	}
	return n
}

func likelyNext(q *domain.Question) string {
	if next := q.Next[domain.DefaultTransition]; len(next) > 0 {
		return next[0]
	}
	for _, choice := range q.Choices() {
		if next := q.Next[choice]; len(next) > 0 {
			return next[0]
		}
	}
	return ""
}
