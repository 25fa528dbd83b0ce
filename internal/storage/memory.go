package storage

import (
	"context"
	"sort"
	"sync"

	"darwin/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]model.EngineSnapshot
	runs      []model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = make(map[string]model.EngineSnapshot)
	s.runs = nil
	return nil
}

func (s *MemoryStore) SaveEngineSnapshot(_ context.Context, snapshot model.EngineSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.RunID] = cloneEngineSnapshot(snapshot)
	return nil
}

func (s *MemoryStore) GetEngineSnapshot(_ context.Context, runID string) (model.EngineSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[runID]
	if !ok {
		return model.EngineSnapshot{}, false, nil
	}
	return cloneEngineSnapshot(snapshot), true, nil
}

func (s *MemoryStore) AppendRunRecord(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, record)
	return nil
}

// ListRunRecords returns run records newest first. Records sharing a
// timestamp keep reverse insertion order, so the latest append still
// lists first.
func (s *MemoryStore) ListRunRecords(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	return out, nil
}

func cloneEngineSnapshot(s model.EngineSnapshot) model.EngineSnapshot {
	out := s
	out.Seeds = make([]model.SeedSnapshot, len(s.Seeds))
	for i, seed := range s.Seeds {
		rows := make([][]float64, len(seed.Population))
		for j, row := range seed.Population {
			rows[j] = append([]float64(nil), row...)
		}
		out.Seeds[i] = model.SeedSnapshot{
			Probabilities: append([]float64(nil), seed.Probabilities...),
			Population:    rows,
			Fitness:       append([]int(nil), seed.Fitness...),
			EliteIndices:  append([]int(nil), seed.EliteIndices...),
			Cursor:        seed.Cursor,
			Generations:   seed.Generations,
		}
	}
	return out
}
