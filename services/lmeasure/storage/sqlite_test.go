package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteLedger(t *testing.T) {
	t.Parallel()

	t.Run("invalid retention should error", func(t *testing.T) {
		s, err := NewSQLiteLedger(memoryPath, 0)

		assert.Nil(t, s)
		assert.True(t, s.IsInterfaceNil())
		assert.Contains(t, err.Error(), "invalid retention")
	})
	t.Run("file database in a new directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")
		s, err := NewSQLiteLedger(dbPath, 3600)
		require.NoError(t, err)
		assert.False(t, s.IsInterfaceNil())

		require.NoError(t, s.SaveInvocation(context.Background(), common.InvocationRecord{
			ID: "a", Operation: "version", Outcome: "OK", RecordedAt: time.Now().Unix(),
		}))
		require.NoError(t, s.Close())
	})
}

func TestSQLiteLedger_SaveAndStats(t *testing.T) {
	t.Parallel()

	s, err := NewSQLiteLedger(memoryPath, 3600)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	ctx := context.Background()
	now := time.Now().Unix()

	records := []common.InvocationRecord{
		{ID: "1", Operation: "measure", NumMetrics: 3, Outcome: "OK", DurationMs: 100, RecordedAt: now - 3},
		{ID: "2", Operation: "measure", NumMetrics: 1, Outcome: "OK", DurationMs: 300, RecordedAt: now - 2},
		{ID: "3", Operation: "measure", NumMetrics: 1, Outcome: "UnsupportedFormat", DurationMs: 50, RecordedAt: now - 1, ErrorMessage: "unsupported input format"},
		{ID: "4", Operation: "convert", Outcome: "OK", DurationMs: 20, RecordedAt: now},
	}
	for _, rec := range records {
		require.NoError(t, s.SaveInvocation(ctx, rec))
	}

	err = s.SaveInvocation(ctx, records[0])
	assert.ErrorContains(t, err, "failed to insert invocation")

	stats, err := s.GetOperationStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, common.OperationStats{Operation: "convert", Outcome: "OK", Count: 1, AvgDurationMs: 20, LastAt: now}, stats[0])
	assert.Equal(t, common.OperationStats{Operation: "measure", Outcome: "OK", Count: 2, AvgDurationMs: 200, LastAt: now - 2}, stats[1])
	assert.Equal(t, "UnsupportedFormat", stats[2].Outcome)

	recent, err := s.GetRecentInvocations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "3", recent[1].ID)
	assert.Equal(t, "unsupported input format", recent[1].ErrorMessage)
}

func TestSQLiteLedger_Retention(t *testing.T) {
	t.Parallel()

	s, err := NewSQLiteLedger(memoryPath, 100)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	assert.Equal(t, time.Minute, s.CleanupInterval())

	ctx := context.Background()
	now := time.Now().Unix()
	require.NoError(t, s.SaveInvocation(ctx, common.InvocationRecord{ID: "old", Operation: "measure", Outcome: "OK", RecordedAt: now - 1000}))
	require.NoError(t, s.SaveInvocation(ctx, common.InvocationRecord{ID: "new", Operation: "measure", Outcome: "OK", RecordedAt: now}))

	s.CleanRetainedInvocations(ctx)

	recent, err := s.GetRecentInvocations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].ID)

	long, err := NewSQLiteLedger(memoryPath, 7200)
	require.NoError(t, err)
	assert.Equal(t, 720*time.Second, long.CleanupInterval())
	_ = long.Close()
}
