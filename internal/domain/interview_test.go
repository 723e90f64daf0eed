package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterview(t *testing.T) *Interview {
	t.Helper()
	iv, err := NewInterview("iv-1", "cand-1", "job-1", "Welcome to the interview.", time.Unix(1000, 0))
	require.NoError(t, err)
	return iv
}

func TestNewInterview(t *testing.T) {
	iv := newTestInterview(t)

	assert.Equal(t, StatusScheduled, iv.Status)
	require.Len(t, iv.Messages, 1)
	assert.Equal(t, RoleSystem, iv.Messages[0].Role)
	assert.Equal(t, "Welcome to the interview.", iv.Messages[0].Content)
	assert.Nil(t, iv.Scoring)
	assert.Nil(t, iv.Score)

	_, err := NewInterview("", "cand-1", "job-1", "", time.Now())
	assert.Error(t, err)

	_, err = NewInterview("iv-2", "", "job-1", "", time.Now())
	assert.Error(t, err)
}

func TestInterview_StartTransitions(t *testing.T) {
	iv := newTestInterview(t)
	now := time.Unix(2000, 0)

	require.NoError(t, iv.Start(now))
	assert.Equal(t, StatusInProgress, iv.Status)
	require.NotNil(t, iv.StartedAt)
	assert.Equal(t, now, *iv.StartedAt)
	assert.Equal(t, int64(0), iv.ElapsedTime)

	// Starting twice is rejected without mutation.
	err := iv.Start(now.Add(time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusInProgress, te.From)
	assert.Equal(t, now, *iv.StartedAt)
}

func TestInterview_AppendMessage(t *testing.T) {
	iv := newTestInterview(t)

	// Appends are rejected while scheduled.
	_, err := iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "hello"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, iv.Start(time.Unix(2000, 0)))

	idx, err := iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = iv.AppendMessage(ChatMessage{Role: RoleAssistant, Content: "What is Go?"})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	require.NoError(t, iv.Complete(50, "done"))
	_, err = iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "too late"})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestInterview_AdvanceElapsed(t *testing.T) {
	iv := newTestInterview(t)
	require.NoError(t, iv.Start(time.Unix(2000, 0)))

	iv.AdvanceElapsed(60_000)
	assert.Equal(t, int64(60_000), iv.ElapsedTime)

	// Stale values never move the clock backwards.
	iv.AdvanceElapsed(30_000)
	assert.Equal(t, int64(60_000), iv.ElapsedTime)

	iv.AdvanceElapsed(90_000)
	assert.Equal(t, int64(90_000), iv.ElapsedTime)
}

func TestInterview_CandidateResponseCount(t *testing.T) {
	iv := newTestInterview(t)
	require.NoError(t, iv.Start(time.Unix(2000, 0)))

	_, err := iv.AppendMessage(ChatMessage{Role: RoleAssistant, Content: "Question?"})
	require.NoError(t, err)
	assert.Equal(t, 0, iv.CandidateResponseCount())

	_, err = iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "Answer one"})
	require.NoError(t, err)
	_, err = iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "Answer two"})
	require.NoError(t, err)
	assert.Equal(t, 2, iv.CandidateResponseCount())
}

func TestInterview_CompleteAndCancel(t *testing.T) {
	iv := newTestInterview(t)
	require.NoError(t, iv.Start(time.Unix(2000, 0)))

	require.NoError(t, iv.Complete(73, "report"))
	assert.Equal(t, StatusCompleted, iv.Status)
	require.NotNil(t, iv.Score)
	assert.Equal(t, 73, *iv.Score)
	assert.Equal(t, "report", iv.Feedback)
	assert.True(t, iv.IsTerminal())

	// Terminal records reject further transitions.
	assert.ErrorIs(t, iv.Complete(10, "again"), ErrAlreadyTerminal)
	assert.ErrorIs(t, iv.Cancel(), ErrAlreadyTerminal)

	other := newTestInterview(t)
	require.NoError(t, other.Cancel())
	assert.Equal(t, StatusCancelled, other.Status)
	assert.Nil(t, other.Score)
}

func TestInterview_Clone(t *testing.T) {
	iv := newTestInterview(t)
	require.NoError(t, iv.Start(time.Unix(2000, 0)))
	_, err := iv.AppendMessage(ChatMessage{Role: RoleUser, Content: "original"})
	require.NoError(t, err)
	iv.Scoring = FoldEvaluation(nil, Evaluation{Score: 70, Feedback: "fb"}, 1)

	cp := iv.Clone()
	cp.Messages[1].Content = "mutated"
	cp.Scoring.CurrentScore = 1
	cp.Scoring.Responses[0].Feedback = "mutated"

	assert.Equal(t, "original", iv.Messages[1].Content)
	assert.Equal(t, 70.0, iv.Scoring.CurrentScore)
	assert.Equal(t, "fb", iv.Scoring.Responses[0].Feedback)

	var nilIV *Interview
	assert.Nil(t, nilIV.Clone())
}

func TestTransitionError_Unwrap(t *testing.T) {
	err := &TransitionError{ID: "iv-1", From: StatusCompleted, To: StatusInProgress, Err: ErrAlreadyTerminal}
	assert.True(t, errors.Is(err, ErrAlreadyTerminal))
	assert.Contains(t, err.Error(), "iv-1")
}
