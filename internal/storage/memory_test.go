package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwin/internal/model"
)

func testSnapshot(runID string) model.EngineSnapshot {
	return model.EngineSnapshot{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           runID,
		Operators:       2,
		PopulationSize:  4,
		EliteCount:      2,
		LearningRate:    0.3,
		Encoding:        "boolean",
		CreatedAtUTC:    "2026-08-31T10:00:00Z",
		Seeds: []model.SeedSnapshot{
			{
				Probabilities: []float64{0.5, 0.65},
				Population:    [][]float64{{1, 0}, {0, 1}, {1, 1}, {0, 0}},
				Fitness:       []int{3, 0, 0, 0},
				EliteIndices:  []int{0, 2},
				Cursor:        1,
				Generations:   2,
			},
		},
	}
}

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	snapshot := testSnapshot("run-1")
	require.NoError(t, store.SaveEngineSnapshot(ctx, snapshot))

	got, ok, err := store.GetEngineSnapshot(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snapshot, got)

	_, ok, err = store.GetEngineSnapshot(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDetachesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	snapshot := testSnapshot("run-1")
	require.NoError(t, store.SaveEngineSnapshot(ctx, snapshot))

	// Mutate the caller's copy; the stored record must be unaffected.
	snapshot.Seeds[0].Probabilities[0] = 0.99

	got, ok, err := store.GetEngineSnapshot(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.5, got.Seeds[0].Probabilities[0])
}

func TestMemoryStoreListsRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	older := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           "run-old",
		CreatedAtUTC:    "2026-08-30T09:00:00Z",
		Seeds:           1,
		Operators:       4,
	}
	newer := older
	newer.RunID = "run-new"
	newer.CreatedAtUTC = "2026-08-31T09:00:00Z"

	require.NoError(t, store.AppendRunRecord(ctx, older))
	require.NoError(t, store.AppendRunRecord(ctx, newer))

	records, err := store.ListRunRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-new", records[0].RunID)
	assert.Equal(t, "run-old", records[1].RunID)
}

func TestMemoryStoreBreaksTimestampTiesByInsertion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	// Back-to-back checkpoints can land on the same clock reading; the
	// later append must still list first.
	for _, runID := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.AppendRunRecord(ctx, model.RunRecord{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			RunID:           runID,
			CreatedAtUTC:    "2026-08-31T09:00:00Z",
			Seeds:           1,
			Operators:       4,
		}))
	}

	records, err := store.ListRunRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run-3", records[0].RunID)
	assert.Equal(t, "run-2", records[1].RunID)
	assert.Equal(t, "run-1", records[2].RunID)
}
