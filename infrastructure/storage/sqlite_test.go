package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

func newTestSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "interviews.db")
	repo, err := NewSQLiteRepository(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_LoadMissing(t *testing.T) {
	repo := newTestSQLiteRepo(t)

	_, err := repo.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrInterviewNotFound)
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	iv := storedInterview(t, "iv-1")
	require.NoError(t, repo.Save(ctx, iv))

	loaded, err := repo.Load(ctx, "iv-1")
	require.NoError(t, err)

	assert.Equal(t, iv.ID, loaded.ID)
	assert.Equal(t, iv.Status, loaded.Status)
	assert.Equal(t, len(iv.Messages), len(loaded.Messages))
	assert.Equal(t, iv.Messages[1].Content, loaded.Messages[1].Content)
	require.NotNil(t, loaded.Scoring)
	assert.Equal(t, iv.Scoring.CurrentScore, loaded.Scoring.CurrentScore)
	assert.Equal(t, iv.Scoring.Responses, loaded.Scoring.Responses)
}

func TestSQLiteRepository_UpsertReplaces(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	iv := storedInterview(t, "iv-1")
	require.NoError(t, repo.Save(ctx, iv))

	require.NoError(t, iv.Complete(61, "final report"))
	require.NoError(t, repo.Save(ctx, iv))

	loaded, err := repo.Load(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, loaded.Status)
	require.NotNil(t, loaded.Score)
	assert.Equal(t, 61, *loaded.Score)
	assert.Equal(t, "final report", loaded.Feedback)
}

func TestSQLiteRepository_ListByStatus(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	first := storedInterview(t, "iv-1")
	require.NoError(t, repo.Save(ctx, first))

	second := storedInterview(t, "iv-2")
	require.NoError(t, second.Complete(70, "done"))
	require.NoError(t, repo.Save(ctx, second))

	inProgress, err := repo.ListByStatus(ctx, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, []string{"iv-1"}, inProgress)

	completed, err := repo.ListByStatus(ctx, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"iv-2"}, completed)

	cancelled, err := repo.ListByStatus(ctx, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

func TestSQLiteRepository_InMemory(t *testing.T) {
	repo, err := NewSQLiteRepository(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	iv, err := domain.NewInterview("iv-mem", "cand-1", "job-1", "", time.Unix(1000, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), iv))

	loaded, err := repo.Load(context.Background(), "iv-mem")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, loaded.Status)
}
