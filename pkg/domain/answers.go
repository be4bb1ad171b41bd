package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// AnswerMap maps question ids to raw answer values, remembering the order in
// which ids were first recorded. Overwriting a value keeps its position.
//
// Values are strings, or numbers for numeric questions. The zero value is an
// empty map ready to use. AnswerMap is not safe for concurrent mutation.
type AnswerMap struct {
	keys   []string
	values map[string]any
}

// NewAnswerMap builds a map from alternating id/value pairs.
func NewAnswerMap(pairs ...any) AnswerMap {
	var m AnswerMap
	for i := 0; i+1 < len(pairs); i += 2 {
		id, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("domain: answer id at %d is %T, want string", i, pairs[i]))
		}
		m.Set(id, pairs[i+1])
	}
	return m
}

// Set records value for id, overwriting any previous value in place.
func (m *AnswerMap) Set(id string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[id]; !exists {
		m.keys = append(m.keys, id)
	}
	m.values[id] = value
}

// Get returns the value recorded for id.
func (m AnswerMap) Get(id string) (any, bool) {
	v, ok := m.values[id]
	return v, ok
}

// String returns the value recorded for id formatted as text.
func (m AnswerMap) String(id string) (string, bool) {
	v, ok := m.values[id]
	if !ok {
		return "", false
	}
	return FormatAnswer(v), true
}

// Has reports whether id has been answered.
func (m AnswerMap) Has(id string) bool {
	_, ok := m.values[id]
	return ok
}

// Delete removes id from the map.
func (m *AnswerMap) Delete(id string) {
	if _, ok := m.values[id]; !ok {
		return
	}
	delete(m.values, id)
	for i, k := range m.keys {
		if k == id {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of answered questions.
func (m AnswerMap) Len() int { return len(m.keys) }

// Keys returns the answered question ids in recording order.
func (m AnswerMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in recording order.
func (m AnswerMap) Each(fn func(id string, value any)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	var c AnswerMap
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// Map returns the entries as a plain map. Order is lost.
func (m AnswerMap) Map() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m AnswerMap) Equal(other AnswerMap) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || FormatAnswer(m.values[k]) != FormatAnswer(other.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as a JSON object whose key order is the
// recording order.
func (m AnswerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving document key order.
// Numbers decode as float64.
func (m *AnswerMap) UnmarshalJSON(data []byte) error {
	*m = AnswerMap{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("answer map: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("answer map: expected string key, got %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		m.Set(key, normalizeNumber(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// FormatAnswer renders an answer value as text. Whole numbers print without
// a fractional part and times print as dates.
func FormatAnswer(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(DateLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
