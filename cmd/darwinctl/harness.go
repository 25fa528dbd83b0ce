package main

import (
	"math/rand"

	darwinapi "darwin/pkg/darwin"
)

// syntheticEnvironment stands in for a real fuzzing target: each
// operator has a hidden productivity, the chance that applying it to an
// input uncovers new execution paths. The selector never sees these
// values, only the path counts they generate.
type syntheticEnvironment struct {
	productivity []float64
	rng          *rand.Rand
}

// newSyntheticEnvironment ramps productivity linearly across operators
// so the last operator is the most rewarding and the first is nearly
// barren.
func newSyntheticEnvironment(operators int, rng *rand.Rand) *syntheticEnvironment {
	productivity := make([]float64, operators)
	for i := range productivity {
		productivity[i] = 0.05 + 0.9*float64(i)/float64(operators)
	}
	return &syntheticEnvironment{productivity: productivity, rng: rng}
}

// execute simulates mutating an input with the operator and returns how
// many new paths the run uncovered.
func (env *syntheticEnvironment) execute(operator int) int {
	if env.rng.Float64() >= env.productivity[operator] {
		return 0
	}
	return 1 + env.rng.Intn(4)
}

type harnessResult struct {
	TotalPaths      int
	SelectionCounts []int
}

// runHarness drives the select/execute/feedback cycle for every seed,
// iterations times each.
func runHarness(client *darwinapi.Client, env *syntheticEnvironment, iterations int) (harnessResult, error) {
	result := harnessResult{SelectionCounts: make([]int, client.Operators())}

	for i := 0; i < iterations; i++ {
		for seed := 0; seed < client.Seeds(); seed++ {
			op, err := client.SelectOperator(seed)
			if err != nil {
				return harnessResult{}, err
			}
			result.SelectionCounts[op]++

			paths := env.execute(op)
			result.TotalPaths += paths
			if err := client.NotifyFeedback(seed, paths); err != nil {
				return harnessResult{}, err
			}
		}
	}
	return result, nil
}
