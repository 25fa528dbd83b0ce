package engine

import "darwin/internal/random"

// seedState is the optimizer state of one seed. All fields are owned by
// the engine and mutated only through SelectOperator/NotifyFeedback for
// that seed.
//
// Invariants: cursor is always in [0, populationSize); elites[i] always
// points into block i (slots [i*blockSize, (i+1)*blockSize)); every
// probability stays in [0,1] and is strictly inside (0,1) once at least
// one generation has completed.
type seedState struct {
	population  []genotype
	fitness     []int
	elites      []int
	probs       []float64
	cursor      int
	generations int
	blockSize   int
}

func newSeedState(params Parameters, operators int, rng random.Source) *seedState {
	st := &seedState{
		population: make([]genotype, params.PopulationSize),
		fitness:    make([]int, params.PopulationSize),
		elites:     make([]int, params.EliteCount),
		probs:      make([]float64, operators),
		blockSize:  params.blockSize(),
	}
	for i := range st.population {
		st.population[i] = newGenotype(params.Encoding, operators)
	}
	for op := range st.probs {
		st.probs[op] = 0.5
	}
	st.resetGeneration()
	// Seed the first active candidate with a fair coin per operator.
	st.population[0].Resample(rng, st.probs)
	return st
}

// active is the candidate view consulted by operator selection.
func (st *seedState) active() genotype {
	return st.population[st.cursor]
}

// recordFeedback applies one feedback observation and reports whether it
// closed a generation.
func (st *seedState) recordFeedback(numPaths int, learningRate float64, rng random.Source) bool {
	st.fitness[st.cursor] = numPaths

	block := st.cursor / st.blockSize
	if st.fitness[st.cursor] > st.fitness[st.elites[block]] {
		st.elites[block] = st.cursor
	}

	st.cursor++
	rolled := st.cursor == len(st.population)
	if rolled {
		st.updateProbabilities(learningRate)
		st.cursor = 0
		st.resetGeneration()
		st.generations++
	}

	// Draw a fresh candidate for the slot now under evaluation.
	st.population[st.cursor].Resample(rng, st.probs)
	return rolled
}

// updateProbabilities runs the generational PBIL step: each operator's
// probability drifts toward the fraction of elites that had it enabled,
// with the elite sum clamped away from 0 and N so no probability can
// ever fixate at an extreme.
func (st *seedState) updateProbabilities(learningRate float64) {
	eliteCount := float64(len(st.elites))
	for op := range st.probs {
		sum := 0.0
		for _, elite := range st.elites {
			sum += st.population[elite].Value(op)
		}
		if sum == eliteCount {
			sum--
		}
		if sum == 0 {
			sum++
		}
		st.probs[op] = (1-learningRate)*st.probs[op] + learningRate*sum/eliteCount
	}
}

// resetGeneration zeroes fitness and points each elite entry back at the
// first slot of its block.
func (st *seedState) resetGeneration() {
	for i := range st.fitness {
		st.fitness[i] = 0
	}
	for i := range st.elites {
		st.elites[i] = i * st.blockSize
	}
}
