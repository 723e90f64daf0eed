package evaluation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

// scriptedEvaluator returns a fixed evaluation per candidate message
// content and tracks peak concurrency.
type scriptedEvaluator struct {
	scores map[string]float64
	fail   string

	mu      sync.Mutex
	active  int
	peak    int
	delay   time.Duration
}

func (s *scriptedEvaluator) Evaluate(ctx context.Context, req ports.EvaluationRequest) (domain.Evaluation, error) {
	s.mu.Lock()
	s.active++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()

	if s.fail != "" && req.CandidateMessage == s.fail {
		return domain.Evaluation{}, errors.New("judge unavailable")
	}
	return domain.Evaluation{
		Score:    s.scores[req.CandidateMessage],
		Feedback: "fb:" + req.CandidateMessage,
	}, nil
}

func rescoreInterview(t *testing.T) *domain.Interview {
	t.Helper()
	iv, err := domain.NewInterview("iv-1", "cand-1", "job-1", "Welcome.", time.Unix(1000, 0))
	require.NoError(t, err)
	require.NoError(t, iv.Start(time.Unix(1001, 0)))

	for _, msg := range []domain.ChatMessage{
		{Role: domain.RoleAssistant, Content: "What is a goroutine?"},
		{Role: domain.RoleUser, Content: "answer-a"},
		{Role: domain.RoleAssistant, Content: "Explain channels?"},
		{Role: domain.RoleUser, Content: "answer-b"},
		{Role: domain.RoleUser, Content: "answer-c"},
	} {
		_, err := iv.AppendMessage(msg)
		require.NoError(t, err)
	}
	return iv
}

func TestNewRescorer_Validation(t *testing.T) {
	_, err := NewRescorer(nil, 1)
	assert.Error(t, err)

	r, err := NewRescorer(&scriptedEvaluator{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRescoreConcurrency, r.concurrency)
}

func TestRescorer_Rescore(t *testing.T) {
	eval := &scriptedEvaluator{scores: map[string]float64{
		"answer-a": 80,
		"answer-b": 60,
		"answer-c": 70,
	}}
	r, err := NewRescorer(eval, 2)
	require.NoError(t, err)

	iv := rescoreInterview(t)
	res, err := r.Rescore(context.Background(), iv, ports.JobContext{Title: "Backend Engineer"})
	require.NoError(t, err)

	require.Len(t, res.Responses, 3)
	// Responses come back in transcript order regardless of completion
	// order.
	assert.Equal(t, 2, res.Responses[0].MessageIndex)
	assert.Equal(t, 4, res.Responses[1].MessageIndex)
	assert.Equal(t, 5, res.Responses[2].MessageIndex)
	assert.Equal(t, 80.0, res.Responses[0].Evaluation.Score)

	require.NotNil(t, res.Scoring)
	assert.InDelta(t, 70.0, res.Scoring.CurrentScore, 1e-9)
	assert.Equal(t, 3, res.Scoring.ResponseCount())
}

func TestRescorer_Rescore_EmptyTranscript(t *testing.T) {
	r, err := NewRescorer(&scriptedEvaluator{}, 2)
	require.NoError(t, err)

	iv, err := domain.NewInterview("iv-2", "cand-1", "job-1", "Welcome.", time.Unix(1000, 0))
	require.NoError(t, err)

	res, err := r.Rescore(context.Background(), iv, ports.JobContext{})
	require.NoError(t, err)
	assert.Empty(t, res.Responses)
	assert.Nil(t, res.Scoring)
}

func TestRescorer_Rescore_FailureFailsWhole(t *testing.T) {
	eval := &scriptedEvaluator{
		scores: map[string]float64{"answer-a": 80, "answer-b": 60, "answer-c": 70},
		fail:   "answer-b",
	}
	r, err := NewRescorer(eval, 2)
	require.NoError(t, err)

	_, err = r.Rescore(context.Background(), rescoreInterview(t), ports.JobContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rescore message")
}

func TestRescorer_Rescore_BoundsConcurrency(t *testing.T) {
	eval := &scriptedEvaluator{
		scores: map[string]float64{"answer-a": 80, "answer-b": 60, "answer-c": 70},
		delay:  10 * time.Millisecond,
	}
	r, err := NewRescorer(eval, 1)
	require.NoError(t, err)

	_, err = r.Rescore(context.Background(), rescoreInterview(t), ports.JobContext{})
	require.NoError(t, err)
	assert.LessOrEqual(t, eval.peak, 1)
}
