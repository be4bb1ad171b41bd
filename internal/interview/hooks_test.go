package interview_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/dsl"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	b := dsl.New("x", "X")
	b.Add("a").YesNo().Branch("Yes", "red_flag_b").Go("c")
	b.Add("red_flag_b").YesNo().Go("c")
	b.Add("c").Choice("None", "Some").RedFlagUnless("Something present.", "None")
	g := b.MustBuild()

	var events []domain.EventType
	var notes []string
	record := func(_ context.Context, e *domain.InterviewEvent) {
		events = append(events, e.Type)
		if e.Type == domain.EventRedFlagRaised {
			notes = append(notes, e.Note)
		}
	}
	hooks := domain.LifecycleHooks{
		OnStart:    record,
		OnAnswer:   record,
		OnComplete: record,
		OnRedFlag:  record,
	}
	e := newEngine(interview.WithLifecycleHooks(hooks))
	ctx := context.Background()

	s := started(t, e, g)
	for _, v := range []string{"Yes", "Yes", "Some"} {
		var err error
		s, err = e.Answer(ctx, s, g, v)
		require.NoError(t, err)
	}

	assert.Equal(t, []domain.EventType{
		domain.EventInterviewStarted,
		domain.EventQuestionAnswered,
		domain.EventQuestionAnswered,
		domain.EventRedFlagRaised,
		domain.EventQuestionAnswered,
		domain.EventRedFlagRaised,
		domain.EventInterviewCompleted,
	}, events)
	assert.Equal(t, []string{"red_flag_b", "Something present."}, notes)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnStart: func(context.Context, *domain.InterviewEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnStart: func(context.Context, *domain.InterviewEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnStart(context.Background(), &domain.InterviewEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnAnswer)
}
