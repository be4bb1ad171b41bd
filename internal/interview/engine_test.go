package interview_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/dsl"
)

var fixedNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newEngine(opts ...interview.Option) *interview.Engine {
	opts = append([]interview.Option{interview.WithClock(func() time.Time { return fixedNow })}, opts...)
	return interview.NewEngine(opts...)
}

func chestPain(t *testing.T) *domain.ComplaintGraph {
	t.Helper()
	g, err := catalog.Default().Graph("chest-pain")
	require.NoError(t, err)
	return g
}

func started(t *testing.T, e *interview.Engine, g *domain.ComplaintGraph) *domain.Session {
	t.Helper()
	s, err := e.Start(context.Background(), domain.NewSession("s1", domain.PatientRecord{FirstName: "Ada"}), g)
	require.NoError(t, err)
	return s
}

func TestEngine_Start(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	fresh := domain.NewSession("s1", domain.PatientRecord{})

	s, err := e.Start(context.Background(), fresh, g)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAwaitingAnswer, s.Status)
	assert.Equal(t, "onset", s.CurrentQuestionID)
	assert.Equal(t, []string{"onset"}, s.History)
	assert.Equal(t, "Chest Pain", s.Record.ChiefComplaint)
	assert.Equal(t, "chest-pain", s.ComplaintID)
	assert.Equal(t, fixedNow, s.CreatedAt)

	assert.Equal(t, domain.StatusNotStarted, fresh.Status, "input session must not be mutated")
}

func TestEngine_Start_KeepsExistingChiefComplaint(t *testing.T) {
	e := newEngine()
	s, err := e.Start(context.Background(), domain.NewSession("s1", domain.PatientRecord{ChiefComplaint: "Chest pain on exertion"}), chestPain(t))
	require.NoError(t, err)
	assert.Equal(t, "Chest pain on exertion", s.Record.ChiefComplaint)
}

func TestEngine_Start_Resume(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	s := started(t, e, g)
	s, err := e.Answer(context.Background(), s, g, "2024-03-14")
	require.NoError(t, err)

	again, err := e.Start(context.Background(), s, g)
	require.NoError(t, err)
	assert.Equal(t, "character", again.CurrentQuestionID)
	assert.Equal(t, s.History, again.History)
}

func TestEngine_Start_MissingInitialQuestion(t *testing.T) {
	g := &domain.ComplaintGraph{ID: "broken", Name: "Broken", InitialQuestion: "nowhere", Questions: map[string]*domain.Question{}}
	_, err := newEngine().Start(context.Background(), domain.NewSession("s1", domain.PatientRecord{}), g)

	var gie *domain.GraphIntegrityError
	require.ErrorAs(t, err, &gie)
	assert.Equal(t, "nowhere", gie.QuestionID)
}

func TestEngine_Answer_FollowsGraph(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	ctx := context.Background()
	s := started(t, e, g)

	steps := []struct {
		value any
		next  string
	}{
		{"2024-03-15", "character"},
		{"sharp", "location"},
		{"Center of chest", "radiation"},
		{"No", "severity"},
		{"8", "exacerbating"},
		{"Physical exertion", "alleviating"},
		{"Rest", "associated"},
	}
	for _, step := range steps {
		var err error
		s, err = e.Answer(ctx, s, g, step.value)
		require.NoError(t, err)
		require.Equal(t, step.next, s.CurrentQuestionID)
	}

	s, err := e.Answer(ctx, s, g, "None")
	require.NoError(t, err)
	assert.True(t, s.Done())
	assert.Empty(t, s.CurrentQuestionID)

	v, _ := s.Record.Answers.Get("character")
	assert.Equal(t, "Sharp", v, "choices are canonicalised to the listed option")
	v, _ = s.Record.Answers.Get("severity")
	assert.Equal(t, 8.0, v, "numeric strings are coerced")

	assert.Equal(t, []string{"onset", "character", "location", "radiation", "severity", "exacerbating", "alleviating", "associated"}, s.Record.Answers.Keys())

	_, err = e.Answer(ctx, s, g, "anything")
	assert.ErrorIs(t, err, domain.ErrInterviewDone)
}

func TestEngine_Answer_NotStarted(t *testing.T) {
	_, err := newEngine().Answer(context.Background(), domain.NewSession("s1", domain.PatientRecord{}), chestPain(t), "x")
	assert.ErrorIs(t, err, domain.ErrInterviewNotStarted)
}

func TestEngine_Answer_InvalidLeavesSessionUntouched(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	s := started(t, e, g)

	_, err := e.Answer(context.Background(), s, g, "not a date")
	var ae *domain.AnswerError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "onset", ae.QuestionID)
	assert.Equal(t, domain.QuestionDate, ae.Type)

	assert.Equal(t, "onset", s.CurrentQuestionID)
	assert.Zero(t, s.Record.Answers.Len())
}

func TestEngine_Answer_UnknownCurrentQuestion(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	s := started(t, e, g)
	s.CurrentQuestionID = "deleted_question"

	_, err := e.Answer(context.Background(), s, g, "Yes")
	var gie *domain.GraphIntegrityError
	require.ErrorAs(t, err, &gie)
	assert.Equal(t, "chest-pain", gie.ComplaintID)
	assert.Equal(t, "deleted_question", gie.QuestionID)
}

func TestEngine_Answer_DanglingTransition(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").YesNo().Go("missing")
	g := b.MustBuild()

	e := newEngine()
	s := started(t, e, g)
	_, err := e.Answer(context.Background(), s, g, "Yes")

	var gie *domain.GraphIntegrityError
	require.ErrorAs(t, err, &gie)
	assert.Equal(t, "missing", gie.QuestionID)
	assert.False(t, errors.Is(err, domain.ErrInterviewDone))
}

func TestEngine_Answer_FirstOfListWins(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").Choice("Left", "Right").Branch("Left", "b", "c").Go("c", "b")
	b.Add("b").Text()
	b.Add("c").Text()
	g := b.MustBuild()

	e := newEngine()

	s, err := e.Answer(context.Background(), started(t, e, g), g, "left")
	require.NoError(t, err)
	assert.Equal(t, "b", s.CurrentQuestionID)
	assert.Equal(t, []string{"a", "b"}, s.History)

	s, err = e.Answer(context.Background(), started(t, e, g), g, "Right")
	require.NoError(t, err)
	assert.Equal(t, "c", s.CurrentQuestionID)
}

func TestEngine_Answer_NoTransitionIsDone(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").YesNo().Branch("Yes", "b")
	b.Add("b").Text()
	g := b.MustBuild()

	e := newEngine()
	s, err := e.Answer(context.Background(), started(t, e, g), g, "no")
	require.NoError(t, err)
	assert.True(t, s.Done())
	v, _ := s.Record.Answers.Get("a")
	assert.Equal(t, "No", v)
}

func TestEngine_Answer_RedFlagBranchAndBack(t *testing.T) {
	g, err := catalog.Default().Graph("abdominal-pain")
	require.NoError(t, err)

	e := newEngine()
	ctx := context.Background()
	s := started(t, e, g)
	for _, v := range []any{"2024-03-15", "Suddenly", "Sharp", "Upper middle abdomen", "Chest"} {
		s, err = e.Answer(ctx, s, g, v)
		require.NoError(t, err)
	}
	require.Equal(t, "red_flag_cardiac", s.CurrentQuestionID)

	s, err = e.Answer(ctx, s, g, "Yes")
	require.NoError(t, err)
	assert.Equal(t, "severity", s.CurrentQuestionID, "red flag branches rejoin the main path")
}

func TestEngine_AnswerQuestion_Edit(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	ctx := context.Background()
	s := started(t, e, g)
	s, err := e.Answer(ctx, s, g, "2024-03-10")
	require.NoError(t, err)
	s, err = e.Answer(ctx, s, g, "Dull")
	require.NoError(t, err)
	s.Record.Summary = "stale"

	edited, err := e.AnswerQuestion(ctx, s, g, "character", "Crushing")
	require.NoError(t, err)

	assert.Equal(t, "location", edited.CurrentQuestionID, "editing does not move the cursor")
	assert.Equal(t, 2, edited.Record.Answers.Len(), "editing does not duplicate entries")
	v, _ := edited.Record.Answers.Get("character")
	assert.Equal(t, "Crushing", v)
	assert.Equal(t, []string{"onset", "character"}, edited.Record.Answers.Keys())
	assert.Empty(t, edited.Record.Summary, "cached summary is invalidated")

	_, err = e.AnswerQuestion(ctx, s, g, "severity", 3)
	var ae *domain.AnswerError
	assert.ErrorAs(t, err, &ae, "unanswered questions cannot be edited")

	_, err = e.AnswerQuestion(ctx, s, g, "nope", 3)
	var gie *domain.GraphIntegrityError
	assert.ErrorAs(t, err, &gie)
}

func TestEngine_AnswerQuestion_CurrentAdvances(t *testing.T) {
	e := newEngine()
	g := chestPain(t)
	s := started(t, e, g)

	s, err := e.AnswerQuestion(context.Background(), s, g, "onset", "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "character", s.CurrentQuestionID)
}

func TestEngine_AnswerQuestion_AfterDone(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").Number()
	g := b.MustBuild()
	e := newEngine()

	s, err := e.Answer(context.Background(), started(t, e, g), g, 4)
	require.NoError(t, err)
	require.True(t, s.Done())

	s, err = e.AnswerQuestion(context.Background(), s, g, "a", "5")
	require.NoError(t, err)
	assert.True(t, s.Done())
	v, _ := s.Record.Answers.Get("a")
	assert.Equal(t, 5.0, v)
}

func TestEngine_AnswerIdempotentPerQuestion(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").Choice("One", "Two").Go("b")
	b.Add("b").Text()
	g := b.MustBuild()
	e := newEngine()
	ctx := context.Background()

	s, err := e.Answer(ctx, started(t, e, g), g, "One")
	require.NoError(t, err)
	s, err = e.AnswerQuestion(ctx, s, g, "a", "Two")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Record.Answers.Len())
	v, _ := s.Record.Answers.Get("a")
	assert.Equal(t, "Two", v)
}

// Every bundled complaint terminates when the first option (or a canonical
// value for open questions) is always supplied.
func TestEngine_BundledGraphsTerminate(t *testing.T) {
	canonical := map[domain.QuestionType]any{
		domain.QuestionText:   "unremarkable",
		domain.QuestionNumber: 5,
		domain.QuestionDate:   "2024-03-10",
		domain.QuestionYesNo:  "Yes",
	}
	e := newEngine()

	for _, g := range catalog.Bundled() {
		t.Run(g.ID, func(t *testing.T) {
			s := started(t, e, g)
			limit := len(g.Questions) + 1
			for steps := 0; !s.Done(); steps++ {
				require.Less(t, steps, limit, "interview did not terminate")
				q, ok := g.Question(s.CurrentQuestionID)
				require.True(t, ok)

				value := canonical[q.Type]
				if q.Type == domain.QuestionMultipleChoice {
					value = q.Options[0]
				}
				var err error
				s, err = e.Answer(context.Background(), s, g, value)
				require.NoError(t, err)
			}
			assert.Equal(t, 100, e.Progress(g, s))
		})
	}
}
