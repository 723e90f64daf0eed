package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFoldEvaluation_FirstFold verifies that folding into nil state
// initializes every running mean to the evaluation's values.
func TestFoldEvaluation_FirstFold(t *testing.T) {
	ev := Evaluation{
		Score:                82,
		TechnicalAccuracy:    85,
		JobAlignment:         78,
		CommunicationClarity: 88,
		Feedback:             "solid start",
	}

	cs := FoldEvaluation(nil, ev, 2)

	require.NotNil(t, cs)
	assert.Equal(t, 82.0, cs.CurrentScore)
	assert.Equal(t, 85.0, cs.TechnicalAccuracy)
	assert.Equal(t, 78.0, cs.JobAlignment)
	assert.Equal(t, 88.0, cs.CommunicationClarity)
	require.Len(t, cs.Responses, 1)
	assert.Equal(t, ResponseRecord{MessageIndex: 2, Score: 82, Feedback: "solid start"}, cs.Responses[0])
}

// TestFoldEvaluation_RunningMean verifies that the incremental mean over a
// sequence of folds equals the arithmetic mean of all folded scores.
func TestFoldEvaluation_RunningMean(t *testing.T) {
	scores := []float64{82, 91, 75, 88, 78}

	var cs *ContinuousScoring
	for i, s := range scores {
		cs = FoldEvaluation(cs, Evaluation{Score: s, TechnicalAccuracy: s, JobAlignment: s, CommunicationClarity: s}, i)
	}

	assert.InDelta(t, 82.8, cs.CurrentScore, 1e-9)
	assert.InDelta(t, 82.8, cs.TechnicalAccuracy, 1e-9)
	assert.Len(t, cs.Responses, 5)
}

// TestFoldEvaluation_EqualWeight verifies that early and late responses
// count equally regardless of when they occurred.
func TestFoldEvaluation_EqualWeight(t *testing.T) {
	var a, b *ContinuousScoring
	for i, s := range []float64{20, 90} {
		a = FoldEvaluation(a, Evaluation{Score: s}, i)
	}
	for i, s := range []float64{90, 20} {
		b = FoldEvaluation(b, Evaluation{Score: s}, i)
	}

	assert.InDelta(t, a.CurrentScore, b.CurrentScore, 1e-9)
	assert.InDelta(t, 55.0, a.CurrentScore, 1e-9)
}

// TestFoldEvaluation_Clamping verifies that out-of-range evaluator output
// is clamped before it enters the running means.
func TestFoldEvaluation_Clamping(t *testing.T) {
	cs := FoldEvaluation(nil, Evaluation{
		Score:                150,
		TechnicalAccuracy:    -30,
		JobAlignment:         101,
		CommunicationClarity: 50,
	}, 0)

	assert.Equal(t, 100.0, cs.CurrentScore)
	assert.Equal(t, 0.0, cs.TechnicalAccuracy)
	assert.Equal(t, 100.0, cs.JobAlignment)
	assert.Equal(t, 50.0, cs.CommunicationClarity)
	assert.Equal(t, 100.0, cs.Responses[0].Score)
}

func TestContinuousScoring_ResponseCount(t *testing.T) {
	var cs *ContinuousScoring
	assert.Equal(t, 0, cs.ResponseCount())

	cs = FoldEvaluation(cs, Evaluation{Score: 70}, 1)
	cs = FoldEvaluation(cs, Evaluation{Score: 80}, 3)
	assert.Equal(t, 2, cs.ResponseCount())
}

// TestContinuousScoring_Clone verifies that clones do not share the
// response log with the original.
func TestContinuousScoring_Clone(t *testing.T) {
	cs := FoldEvaluation(nil, Evaluation{Score: 70, Feedback: "ok"}, 1)

	cp := cs.Clone()
	cp.Responses[0].Feedback = "mutated"
	cp.CurrentScore = 5

	assert.Equal(t, "ok", cs.Responses[0].Feedback)
	assert.Equal(t, 70.0, cs.CurrentScore)

	var nilCS *ContinuousScoring
	assert.Nil(t, nilCS.Clone())
}
