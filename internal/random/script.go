package random

import "sync"

// Script replays fixed sequences of draws, wrapping around when a
// sequence is exhausted. Integer draws are reduced modulo n so a script
// stays valid whatever range the caller asks for. Used to make engine
// runs fully deterministic in tests.
type Script struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	i, f   int
}

func NewScript(ints []int, floats []float64) *Script {
	return &Script{ints: ints, floats: floats}
}

func (s *Script) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		panic("random: Intn range must be > 0")
	}
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	if v < 0 {
		v += n
	}
	return v
}

func (s *Script) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}
