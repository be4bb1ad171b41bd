package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/export"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/narrative"
)

func note(t *testing.T) (string, bool) {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	g := narrative.New(catalog.Default(), narrative.WithClock(now))
	record := &domain.PatientRecord{
		FirstName: "John", LastName: "Doe", Age: 45, Gender: "Male",
		DateOfVisit: "2024-03-10", ChiefComplaint: "Chest Pain",
		Answers: domain.NewAnswerMap("onset", "2024-03-08", "associated", "Sweating", "red_flag_cardiac", "Yes"),
	}
	return g.Generate(record), g.HasRedFlags(record)
}

func TestPDF_Write(t *testing.T) {
	text, flagged := note(t)
	require.True(t, flagged)

	var buf bytes.Buffer
	p := export.NewPDF(export.WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, p.Write(&buf, export.Document{Title: "John Doe", Note: text, HasRedFlags: flagged}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestPDF_Deterministic(t *testing.T) {
	text, _ := note(t)
	p := export.NewPDF(export.WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }))

	var a, b bytes.Buffer
	require.NoError(t, p.Write(&a, export.Document{Note: text}))
	require.NoError(t, p.Write(&b, export.Document{Note: text}))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestPDF_EmptyNote(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, export.NewPDF().Write(&buf, export.Document{Note: "  "}))
	assert.Zero(t, buf.Len())
}
