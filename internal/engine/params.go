package engine

import "fmt"

const (
	DefaultPopulationSize = 20
	DefaultEliteCount     = 4
	DefaultLearningRate   = 0.3
)

// Parameters controls the shape of the generational update. The defaults
// reproduce the classic configuration; anything else must still keep the
// population evenly partitioned into elite blocks.
type Parameters struct {
	PopulationSize int
	EliteCount     int
	LearningRate   float64
	Encoding       Encoding
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: DefaultPopulationSize,
		EliteCount:     DefaultEliteCount,
		LearningRate:   DefaultLearningRate,
		Encoding:       EncodingBoolean,
	}
}

func (p Parameters) Validate() error {
	if p.PopulationSize <= 0 {
		return fmt.Errorf("population size must be > 0, got %d", p.PopulationSize)
	}
	if p.EliteCount <= 0 {
		return fmt.Errorf("elite count must be > 0, got %d", p.EliteCount)
	}
	if p.EliteCount > p.PopulationSize {
		return fmt.Errorf("elite count %d exceeds population size %d", p.EliteCount, p.PopulationSize)
	}
	if p.PopulationSize%p.EliteCount != 0 {
		return fmt.Errorf("population size %d must be divisible by elite count %d", p.PopulationSize, p.EliteCount)
	}
	if p.LearningRate <= 0 || p.LearningRate >= 1 {
		return fmt.Errorf("learning rate must be in (0,1), got %v", p.LearningRate)
	}
	if _, err := ParseEncoding(string(p.Encoding)); err != nil {
		return err
	}
	return nil
}

// blockSize is the number of population slots covered by one elite entry.
func (p Parameters) blockSize() int {
	return p.PopulationSize / p.EliteCount
}
