package storage

import (
	"context"

	"darwin/internal/model"
)

// Store persists checkpointed engine state so a learned operator
// distribution can outlive the fuzzing process that produced it.
type Store interface {
	Init(ctx context.Context) error
	SaveEngineSnapshot(ctx context.Context, snapshot model.EngineSnapshot) error
	GetEngineSnapshot(ctx context.Context, runID string) (model.EngineSnapshot, bool, error)
	AppendRunRecord(ctx context.Context, record model.RunRecord) error
	ListRunRecords(ctx context.Context) ([]model.RunRecord, error)
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
