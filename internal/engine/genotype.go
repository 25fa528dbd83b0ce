package engine

import (
	"fmt"

	"darwin/internal/random"
)

// Encoding selects how a candidate mask is represented. Both encodings
// sample flags from the same Bernoulli model; they differ only in the
// stored value type, mirroring the discrete and real-valued variants of
// the underlying algorithm.
type Encoding string

const (
	EncodingBoolean Encoding = "boolean"
	EncodingReal    Encoding = "real"
)

func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", string(EncodingBoolean):
		return EncodingBoolean, nil
	case string(EncodingReal):
		return EncodingReal, nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", name)
	}
}

// genotype is one candidate operator-enable mask. The update algorithm
// only ever reads flags through Enabled/Value, so either encoding can sit
// behind it without the algorithm knowing.
type genotype interface {
	// Enabled reports whether operator op is switched on in this candidate.
	Enabled(op int) bool
	// Value is the numeric contribution of operator op to an elite sum.
	Value(op int) float64
	// Resample redraws every flag as Bernoulli(probs[op]).
	Resample(rng random.Source, probs []float64)
	// Values exports the mask as reals for snapshots.
	Values() []float64
	// SetValues restores the mask from exported reals.
	SetValues(values []float64)
}

type booleanGenotype []bool

func (g booleanGenotype) Enabled(op int) bool { return g[op] }

func (g booleanGenotype) Value(op int) float64 {
	if g[op] {
		return 1
	}
	return 0
}

func (g booleanGenotype) Resample(rng random.Source, probs []float64) {
	for op := range g {
		g[op] = rng.Float64() < probs[op]
	}
}

func (g booleanGenotype) Values() []float64 {
	out := make([]float64, len(g))
	for op := range g {
		out[op] = g.Value(op)
	}
	return out
}

func (g booleanGenotype) SetValues(values []float64) {
	for op := range g {
		g[op] = values[op] != 0
	}
}

type realGenotype []float64

func (g realGenotype) Enabled(op int) bool { return g[op] != 0 }

func (g realGenotype) Value(op int) float64 { return g[op] }

func (g realGenotype) Resample(rng random.Source, probs []float64) {
	for op := range g {
		if rng.Float64() < probs[op] {
			g[op] = 1
		} else {
			g[op] = 0
		}
	}
}

func (g realGenotype) Values() []float64 {
	return append([]float64(nil), g...)
}

func (g realGenotype) SetValues(values []float64) {
	copy(g, values)
}

func newGenotype(encoding Encoding, operators int) genotype {
	if encoding == EncodingReal {
		return make(realGenotype, operators)
	}
	return make(booleanGenotype, operators)
}
