package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/testutils"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports/tests"
)

const soreThroat = `---
id: sore-throat
name: Sore Throat
initial_question: onset
questions:
  - id: onset
    text: When did the sore throat start?
    type: date
    to: fever
  - id: fever
    text: How high has your temperature been?
    options: [None, Low grade, High grade]
    next_questions:
      High grade: red_flag_airway
      default: [swallowing]
    red_flag:
      note: Fever with sore throat.
      negatives: [None]
  - id: red_flag_airway
    text: Any difficulty breathing or drooling?
    type: yes_no
    to: swallowing
  - id: swallowing
    text: Is swallowing painful?
    type: yes_no
---
Adult sore throat pathway.`

const cough = `---
name: Cough
questions:
  - id: duration
    text: How long have you been coughing?
    type: text
---
`

func writeDocs(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func newLoader(t *testing.T, docs map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	writeDocs(t, dir, docs)
	return New(loam.NewTypedRepository[GraphMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"sore-throat.md": soreThroat,
		"cough.md":       cough,
	})
	tests.GraphLoaderContractTest(t, loader, []string{"cough", "sore-throat"})
}

func TestLoader_DecodesQuestions(t *testing.T) {
	loader := newLoader(t, map[string]string{"sore-throat.md": soreThroat})

	graphs, err := loader.LoadGraphs(context.Background())
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	g := graphs[0]

	assert.Equal(t, "Sore Throat", g.Name)
	assert.Equal(t, []string{"onset", "fever", "red_flag_airway", "swallowing"}, g.Order)

	onset := g.Questions["onset"]
	assert.Equal(t, domain.QuestionDate, onset.Type)
	assert.Equal(t, []string{"fever"}, onset.Next[domain.DefaultTransition])

	fever := g.Questions["fever"]
	assert.Equal(t, domain.QuestionMultipleChoice, fever.Type, "options imply multiple choice")
	assert.Equal(t, []string{"red_flag_airway"}, fever.Next["High grade"], "single target lifts to a list")
	assert.Equal(t, []string{"swallowing"}, fever.Next[domain.DefaultTransition])
	require.NotNil(t, fever.RedFlag)
	assert.True(t, fever.RaisesRedFlag("High grade"))
	assert.False(t, fever.RaisesRedFlag("None"))

	assert.True(t, g.Questions["red_flag_airway"].RaisesRedFlag("Yes"), "legacy prefix")
}

func TestOpen_ReadsCatalogDir(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, map[string]string{"sore-throat.md": soreThroat})

	loader, err := Open(dir)
	require.NoError(t, err)

	graphs, err := loader.LoadGraphs(context.Background())
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Equal(t, "sore-throat", graphs[0].ID)
	assert.Equal(t, "Sore Throat", graphs[0].Name)
	assert.Equal(t, "onset", graphs[0].InitialQuestion)
	assert.Len(t, graphs[0].Questions, 4)
}

func TestLoader_DefaultsFromDocument(t *testing.T) {
	loader := newLoader(t, map[string]string{"cough.md": cough})

	graphs, err := loader.LoadGraphs(context.Background())
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Equal(t, "cough", graphs[0].ID, "id falls back to the file name")
	assert.Equal(t, "duration", graphs[0].InitialQuestion, "first question starts the interview")
}

func TestLoader_Errors(t *testing.T) {
	cases := map[string]string{
		"missing question id": `---
name: Broken
questions:
  - text: no id
---
`,
		"unknown field": `---
name: Broken
questions:
  - id: a
    txet: typo
---
`,
		"to and default": `---
name: Broken
questions:
  - id: a
    to: b
    next_questions:
      default: b
  - id: b
---
`,
		"missing initial": `---
name: Broken
initial_question: nope
questions:
  - id: a
---
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			loader := newLoader(t, map[string]string{"broken.md": doc})
			_, err := loader.LoadGraphs(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLoader_Collision(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"a.md": soreThroat,
		"b.md": soreThroat,
	})
	_, err := loader.LoadGraphs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}
