package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadra-dev/quadra/internal/mc"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(t *testing.T, seed int64) *mc.Result {
	t.Helper()
	res, err := mc.EstimateExpr(0, 1, "x^2", 1000, seed)
	require.NoError(t, err)
	return res
}

func TestOpen_CreatesDatabase(t *testing.T) {
	s := setupTestStore(t)
	assert.NotNil(t, s)

	// Opening the same path again must be safe.
	require.NoError(t, s.Close())
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := NewRun(testResult(t, 1291))
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Expr, got.Expr)
	assert.Equal(t, run.A, got.A)
	assert.Equal(t, run.B, got.B)
	assert.Equal(t, run.Samples, got.Samples)
	assert.Equal(t, run.Seed, got.Seed)
	assert.Equal(t, run.Estimate, got.Estimate)
	assert.Equal(t, run.Variance, got.Variance)
	assert.Equal(t, run.Fingerprint, got.Fingerprint)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestWriteRun_IdempotentOnID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := NewRun(testResult(t, 1291))
	require.NoError(t, s.WriteRun(ctx, run))
	require.NoError(t, s.WriteRun(ctx, run))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGetRun_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetRun(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	early := NewRun(testResult(t, 1))
	early.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := NewRun(testResult(t, 2))
	late.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.WriteRun(ctx, early))
	require.NoError(t, s.WriteRun(ctx, late))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, late.ID, runs[0].ID)
	assert.Equal(t, early.ID, runs[1].ID)
}

func TestListRuns_Limit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for seed := int64(0); seed < 5; seed++ {
		require.NoError(t, s.WriteRun(ctx, NewRun(testResult(t, seed))))
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestListRuns_EmptyIsNotNil(t *testing.T) {
	s := setupTestStore(t)

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestNewRun_AssignsIDAndFingerprint(t *testing.T) {
	res := testResult(t, 1291)
	run := NewRun(res)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, Fingerprint(res), run.Fingerprint)
	assert.False(t, run.CreatedAt.IsZero())

	// Distinct runs of the same result get distinct IDs.
	other := NewRun(res)
	assert.NotEqual(t, run.ID, other.ID)
	assert.Equal(t, run.Fingerprint, other.Fingerprint)
}

func TestRun_ResultRoundTrip(t *testing.T) {
	res := testResult(t, 1291)
	run := NewRun(res)

	back := run.Result()
	assert.Equal(t, res, back)
	assert.Equal(t, run.Fingerprint, Fingerprint(back))
}
