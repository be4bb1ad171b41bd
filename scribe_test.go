package scribe_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/memory"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/dsl"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/session"
)

const earache = `---
id: earache
name: Earache
initial_question: side
questions:
  - id: side
    text: Which ear hurts?
    options: [Left, Right, Both]
    to: discharge
  - id: discharge
    text: Is there any discharge from the ear?
    type: yes_no
---
Ear pain pathway.`

func TestFacade_Bundled(t *testing.T) {
	ctx := context.Background()
	eng, err := scribe.New(ctx)
	require.NoError(t, err)

	g, err := eng.LoadGraph(ctx, "chest pain")
	require.NoError(t, err)
	assert.Equal(t, "chest-pain", g.ID)

	_, err = eng.LoadGraph(ctx, "Back Pain")
	assert.ErrorIs(t, err, domain.ErrComplaintNotFound)

	g, fellBack, err := eng.LoadGraphOrDefault(ctx, "Back Pain")
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Equal(t, "chest-pain", g.ID)
}

func TestFacade_CatalogDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "earache.md"), []byte(earache), 0o644))

	ctx := context.Background()
	eng, err := scribe.New(ctx, scribe.WithCatalogDir(dir), scribe.WithDefaultComplaint("earache"))
	require.NoError(t, err)

	g, fellBack, err := eng.LoadGraphOrDefault(ctx, "Headache")
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Equal(t, "Earache", g.Name)

	s, err := eng.Start(ctx, domain.NewSession("s1", domain.PatientRecord{FirstName: "A", LastName: "B", Age: 9, Gender: "Female"}), g)
	require.NoError(t, err)
	s, err = eng.Answer(ctx, s, g, "left")
	require.NoError(t, err)
	assert.Equal(t, "discharge", s.CurrentQuestionID)

	s, err = eng.AnswerQuestion(ctx, s, g, "side", "Both")
	require.NoError(t, err)
	v, _ := s.Answers().String("side")
	assert.Equal(t, "Both", v)
	assert.Equal(t, "discharge", s.CurrentQuestionID)
}

func TestFacade_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := scribe.New(ctx, scribe.WithDefaultComplaint("missing"))
	assert.ErrorIs(t, err, domain.ErrComplaintNotFound)

	_, err = scribe.New(ctx, scribe.WithLoader(memory.NewLoader("{not json")))
	assert.Error(t, err)
}

func TestFacade_Interviewer(t *testing.T) {
	g := dsl.New("fall", "Fall")
	g.Add("head").Question("Did you hit your head?").YesNo().RedFlag("Head injury after a fall.")
	loader, err := memory.NewFromGraphs(g.MustBuild())
	require.NoError(t, err)

	ctx := context.Background()
	eng, err := scribe.New(ctx, scribe.WithLoader(loader))
	require.NoError(t, err)

	iv := eng.Interviewer(session.NewManager(memory.NewStore()))
	s, err := iv.Begin(ctx, domain.PatientRecord{FirstName: "Ann", LastName: "Lee", Age: 80, Gender: "Female"}, "Fall")
	require.NoError(t, err)

	_, err = iv.Submit(ctx, s.ID, true)
	require.NoError(t, err)

	sum, err := iv.Summary(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, sum.Complete)
	assert.True(t, sum.HasRedFlags)
	assert.Equal(t, []string{"Head injury after a fall."}, sum.RedFlags)
	assert.Equal(t, sum.RedFlags, eng.RedFlags(&domain.PatientRecord{
		ChiefComplaint: "Fall",
		Answers:        domain.NewAnswerMap("head", "Yes"),
	}))
}
