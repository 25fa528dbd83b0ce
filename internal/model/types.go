package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SeedSnapshot is the full optimizer state of one seed: the learned
// probability vector plus the in-flight generation (population rows,
// fitness, elite indices, cursor).
type SeedSnapshot struct {
	Probabilities []float64   `json:"probabilities"`
	Population    [][]float64 `json:"population"`
	Fitness       []int       `json:"fitness"`
	EliteIndices  []int       `json:"elite_indices"`
	Cursor        int         `json:"cursor"`
	Generations   int         `json:"generations"`
}

// EngineSnapshot is a point-in-time capture of a whole engine, one
// SeedSnapshot per seed. Restoring it reproduces the learned state
// exactly; only the random source is external.
type EngineSnapshot struct {
	VersionedRecord
	RunID          string         `json:"run_id"`
	Operators      int            `json:"operators"`
	PopulationSize int            `json:"population_size"`
	EliteCount     int            `json:"elite_count"`
	LearningRate   float64        `json:"learning_rate"`
	Encoding       string         `json:"encoding"`
	Seeds          []SeedSnapshot `json:"seeds"`
	CreatedAtUTC   string         `json:"created_at_utc"`
}

// RunRecord indexes one checkpointed run.
type RunRecord struct {
	VersionedRecord
	RunID        string `json:"run_id"`
	CreatedAtUTC string `json:"created_at_utc"`
	Seeds        int    `json:"seeds"`
	Operators    int    `json:"operators"`
	Generations  int    `json:"generations"`
	Encoding     string `json:"encoding"`
}
