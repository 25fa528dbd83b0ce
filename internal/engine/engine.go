// Package engine implements an online estimation-of-distribution
// optimizer for mutation-operator selection. A fuzzing loop consults it
// per input seed: SelectOperator picks the next operator to apply, and
// NotifyFeedback reports how many new execution paths the mutated input
// uncovered. Each seed learns its own per-operator Bernoulli model from
// the feedback, updated once per generation from the elite candidates.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"darwin/internal/random"
)

var (
	ErrSeedOutOfRange   = errors.New("seed index out of range")
	ErrNegativeFeedback = errors.New("path count must be >= 0")
	ErrNotImplemented   = errors.New("not implemented")
)

// Config assembles an engine. Seeds and Operators are fixed for the
// engine's lifetime; Rand is the injected random-source capability.
type Config struct {
	Seeds      int
	Operators  int
	Parameters Parameters
	Rand       random.Source
	Logger     *slog.Logger
}

// Engine owns one independent optimizer state per seed. Calls for
// different seeds may run concurrently as long as the Select/Feedback
// pair for any single seed is issued by one caller at a time; the random
// source is the only shared resource and must be thread-safe.
type Engine struct {
	params Parameters
	k      int
	rng    random.Source
	log    *slog.Logger
	seeds  []*seedState
}

// New builds the per-seed registry. A non-positive operator or seed
// count is a fatal configuration error: no state is built.
func New(cfg Config) (*Engine, error) {
	if cfg.Seeds <= 0 {
		return nil, fmt.Errorf("seed count must be > 0, got %d", cfg.Seeds)
	}
	if cfg.Operators <= 0 {
		return nil, fmt.Errorf("operator count must be > 0, got %d", cfg.Operators)
	}
	if cfg.Rand == nil {
		return nil, errors.New("random source is required")
	}
	params := cfg.Parameters
	if params == (Parameters{}) {
		params = DefaultParameters()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		params: params,
		k:      cfg.Operators,
		rng:    cfg.Rand,
		log:    cfg.Logger,
		seeds:  make([]*seedState, cfg.Seeds),
	}
	for i := range e.seeds {
		e.seeds[i] = newSeedState(params, cfg.Operators, cfg.Rand)
	}
	return e, nil
}

// SelectOperator picks an operator for the seed's current candidate: a
// random start index, then a linear scan with wraparound for the first
// enabled flag, at most one full pass. If every flag is disabled the
// scan ends back where it started, which amounts to a uniformly random
// fallback pick; that degenerate case is defined behavior, not an error.
func (e *Engine) SelectOperator(seed int) (int, error) {
	st, err := e.seedState(seed)
	if err != nil {
		return 0, err
	}

	active := st.active()
	op := e.rng.Intn(e.k)
	for probes := 0; probes < e.k; probes++ {
		if active.Enabled(op) {
			return op, nil
		}
		op = (op + 1) % e.k
	}
	return op, nil
}

// NotifyFeedback attributes numPaths newly discovered paths to the
// seed's candidate under evaluation and advances the generation cursor.
// When the cursor wraps, the seed's probability vector is updated from
// its elites and the generation bookkeeping is reset. In all cases a
// fresh candidate is drawn for the slot now under evaluation.
func (e *Engine) NotifyFeedback(seed, numPaths int) error {
	st, err := e.seedState(seed)
	if err != nil {
		return err
	}
	if numPaths < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeFeedback, numPaths)
	}

	if st.recordFeedback(numPaths, e.params.LearningRate, e.rng) && e.log != nil {
		e.log.Debug("generation complete",
			"seed", seed,
			"generation", st.generations,
			"probabilities", append([]float64(nil), st.probs...),
		)
	}
	return nil
}

// ParentRepresentation is intended to pack the seed's best operator mask
// into a fixed-width integer for external inspection. No packing
// contract exists yet, so it returns the zero sentinel alongside
// ErrNotImplemented.
func (e *Engine) ParentRepresentation(seed int) (uint32, error) {
	if _, err := e.seedState(seed); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("parent representation: %w", ErrNotImplemented)
}

// Probabilities returns a copy of the seed's learned probability vector.
func (e *Engine) Probabilities(seed int) ([]float64, error) {
	st, err := e.seedState(seed)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), st.probs...), nil
}

// ActiveCandidate returns a copy of the operator mask currently under
// evaluation for the seed.
func (e *Engine) ActiveCandidate(seed int) ([]float64, error) {
	st, err := e.seedState(seed)
	if err != nil {
		return nil, err
	}
	return st.active().Values(), nil
}

// Cursor returns the population slot currently under evaluation.
func (e *Engine) Cursor(seed int) (int, error) {
	st, err := e.seedState(seed)
	if err != nil {
		return 0, err
	}
	return st.cursor, nil
}

// Generations returns how many full generations the seed has completed.
func (e *Engine) Generations(seed int) (int, error) {
	st, err := e.seedState(seed)
	if err != nil {
		return 0, err
	}
	return st.generations, nil
}

func (e *Engine) Seeds() int { return len(e.seeds) }

func (e *Engine) Operators() int { return e.k }

func (e *Engine) seedState(seed int) (*seedState, error) {
	if seed < 0 || seed >= len(e.seeds) {
		return nil, fmt.Errorf("%w: %d (have %d seeds)", ErrSeedOutOfRange, seed, len(e.seeds))
	}
	return e.seeds[seed], nil
}
