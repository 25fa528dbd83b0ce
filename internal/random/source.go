package random

import (
	"math/rand"
	"sync"
)

// Source supplies the two draws the engine needs: a uniform integer in
// [0,n) and a uniform real in [0,1). Implementations must be safe for
// concurrent use; the source is the only resource shared across seeds.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// LockedSource wraps a seeded math/rand generator behind a mutex.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLocked(seed int64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
