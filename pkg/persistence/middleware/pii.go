package middleware

import (
	"context"
	"regexp"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
)

// Mask replaces masked values.
const Mask = "***"

// DefaultPIIPatterns cover the identifying demographics of a patient record.
var DefaultPIIPatterns = []string{"name", "contact"}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values whose key matches
// one of the patterns. Keys are the JSON names of the string fields of the
// patient record (first_name, contact_info, ...) and answer ids.
// Masking is one-way: a masked session loads back masked.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	// Clone so the in-memory session used by the engine keeps real values.
	cloned := session.Clone()
	m.maskRecord(&cloned.Record)
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) maskRecord(r *domain.PatientRecord) {
	fields := []struct {
		key   string
		value *string
	}{
		{"first_name", &r.FirstName},
		{"last_name", &r.LastName},
		{"gender", &r.Gender},
		{"contact_info", &r.ContactInfo},
		{"date_of_visit", &r.DateOfVisit},
	}
	for _, f := range fields {
		if *f.value != "" && m.matches(f.key) {
			*f.value = Mask
		}
	}

	for _, id := range r.Answers.Keys() {
		if m.matches(id) {
			r.Answers.Set(id, Mask)
		}
	}
}
