package engine

import (
	"fmt"
	"log/slog"

	"darwin/internal/model"
	"darwin/internal/random"
)

// Snapshot captures the engine's full learned state. The caller supplies
// run identity and timestamps; versions are stamped for the codec.
func (e *Engine) Snapshot() model.EngineSnapshot {
	snap := model.EngineSnapshot{
		Operators:      e.k,
		PopulationSize: e.params.PopulationSize,
		EliteCount:     e.params.EliteCount,
		LearningRate:   e.params.LearningRate,
		Encoding:       string(e.params.Encoding),
		Seeds:          make([]model.SeedSnapshot, len(e.seeds)),
	}
	for i, st := range e.seeds {
		rows := make([][]float64, len(st.population))
		for j, g := range st.population {
			rows[j] = g.Values()
		}
		snap.Seeds[i] = model.SeedSnapshot{
			Probabilities: append([]float64(nil), st.probs...),
			Population:    rows,
			Fitness:       append([]int(nil), st.fitness...),
			EliteIndices:  append([]int(nil), st.elites...),
			Cursor:        st.cursor,
			Generations:   st.generations,
		}
	}
	return snap
}

// FromSnapshot rebuilds an engine from captured state. The random source
// is external to snapshots and must be supplied again.
func FromSnapshot(snap model.EngineSnapshot, rng random.Source, logger *slog.Logger) (*Engine, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	encoding, err := ParseEncoding(snap.Encoding)
	if err != nil {
		return nil, err
	}
	params := Parameters{
		PopulationSize: snap.PopulationSize,
		EliteCount:     snap.EliteCount,
		LearningRate:   snap.LearningRate,
		Encoding:       encoding,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if snap.Operators <= 0 {
		return nil, fmt.Errorf("operator count must be > 0, got %d", snap.Operators)
	}
	if len(snap.Seeds) == 0 {
		return nil, fmt.Errorf("snapshot has no seeds")
	}

	e := &Engine{
		params: params,
		k:      snap.Operators,
		rng:    rng,
		log:    logger,
		seeds:  make([]*seedState, len(snap.Seeds)),
	}
	for i, seed := range snap.Seeds {
		st, err := seedStateFromSnapshot(seed, params, snap.Operators)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		e.seeds[i] = st
	}
	return e, nil
}

func seedStateFromSnapshot(snap model.SeedSnapshot, params Parameters, operators int) (*seedState, error) {
	if len(snap.Probabilities) != operators {
		return nil, fmt.Errorf("probability vector has %d entries, want %d", len(snap.Probabilities), operators)
	}
	if len(snap.Population) != params.PopulationSize {
		return nil, fmt.Errorf("population has %d rows, want %d", len(snap.Population), params.PopulationSize)
	}
	if len(snap.Fitness) != params.PopulationSize {
		return nil, fmt.Errorf("fitness has %d entries, want %d", len(snap.Fitness), params.PopulationSize)
	}
	if len(snap.EliteIndices) != params.EliteCount {
		return nil, fmt.Errorf("elite table has %d entries, want %d", len(snap.EliteIndices), params.EliteCount)
	}
	if snap.Cursor < 0 || snap.Cursor >= params.PopulationSize {
		return nil, fmt.Errorf("cursor %d outside [0,%d)", snap.Cursor, params.PopulationSize)
	}
	blockSize := params.blockSize()
	for i, elite := range snap.EliteIndices {
		if elite < i*blockSize || elite >= (i+1)*blockSize {
			return nil, fmt.Errorf("elite %d index %d outside its block", i, elite)
		}
	}
	for op, p := range snap.Probabilities {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("probability %d out of range: %v", op, p)
		}
	}

	st := &seedState{
		population:  make([]genotype, params.PopulationSize),
		fitness:     append([]int(nil), snap.Fitness...),
		elites:      append([]int(nil), snap.EliteIndices...),
		probs:       append([]float64(nil), snap.Probabilities...),
		cursor:      snap.Cursor,
		generations: snap.Generations,
		blockSize:   blockSize,
	}
	for i, row := range snap.Population {
		if len(row) != operators {
			return nil, fmt.Errorf("population row %d has %d flags, want %d", i, len(row), operators)
		}
		// Sampling only ever produces 0/1 flags; anything else would feed
		// the next elite sum and push probabilities outside [0,1].
		for op, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("population row %d flag %d out of range: %v", i, op, v)
			}
		}
		g := newGenotype(params.Encoding, operators)
		g.SetValues(row)
		st.population[i] = g
	}
	return st, nil
}
