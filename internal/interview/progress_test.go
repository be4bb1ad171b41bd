package interview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/interview"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/dsl"
)

func TestEstimateLength(t *testing.T) {
	c := catalog.Default()
	chest, _ := c.Graph("chest-pain")
	// The default path follows the first associated symptom into the cardiac red flag.
	assert.Equal(t, 9, interview.EstimateLength(chest))

	b := dsl.New("loop", "Loop")
	b.Add("a").Go("b")
	b.Add("b").Go("a")
	assert.Equal(t, 2, interview.EstimateLength(b.MustBuild()))

	assert.Equal(t, 1, interview.EstimateLength(nil))
}

func TestProgress(t *testing.T) {
	chest, _ := catalog.Default().Graph("chest-pain")

	assert.Equal(t, 0, interview.Progress(chest, 0, false))
	assert.Equal(t, 100, interview.Progress(chest, 0, true))

	prev := 0
	for answered := 1; answered <= 30; answered++ {
		p := interview.Progress(chest, answered, false)
		assert.GreaterOrEqual(t, p, prev, "progress must not decrease")
		assert.LessOrEqual(t, p, 90, "progress stays below 100 until done")
		prev = p
	}
	assert.Equal(t, 90, prev)
	assert.Equal(t, 31, interview.Progress(chest, 4, false))
}
