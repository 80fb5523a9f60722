package checkpoint

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfielding/zfsearch/search"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmpty(t *testing.T) {
	s := openMem(t)
	next, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, next)
}

func TestSaveLoad(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, big.NewInt(1000)))
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	require.NoError(t, s.Save(ctx, huge))

	next, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, next.Cmp(huge), "later save wins")

	assert.Error(t, s.Save(ctx, big.NewInt(-1)))
}

func TestRunsOrdered(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	later := search.RunRecord{ID: "b", Start: "100", Next: "200", Candidates: 100, Stop: search.StopLimit, StartedAt: base.Add(time.Hour)}
	earlier := search.RunRecord{ID: "a", Start: "0", Next: "100", Candidates: 100, Stop: search.StopCanceled, StartedAt: base}
	require.NoError(t, s.RecordRun(ctx, later))
	require.NoError(t, s.RecordRun(ctx, earlier))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, search.StopLimit, runs[1].Stop)
	assert.True(t, runs[0].StartedAt.Equal(base))
}

func TestCanceledContext(t *testing.T) {
	s := openMem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, big.NewInt(1)), context.Canceled)
	_, _, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchResumesFromStore(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	_, err := search.New(search.Config{Limit: 30, CheckpointEvery: 10}, search.WithStore(s)).Run(ctx)
	require.NoError(t, err)

	res, err := search.New(search.Config{Limit: 5, Resume: true}, search.WithStore(s)).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Start.Int64())
	assert.Equal(t, int64(35), res.Next.Int64())

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestPersistentReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, big.NewInt(77)))
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()
	next, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(77), next.Int64())
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
