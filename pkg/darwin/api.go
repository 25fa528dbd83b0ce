// Package darwin is the embedding surface for the adaptive
// mutation-operator selector. A fuzzing loop creates one Client, calls
// SelectOperator before mutating an input and NotifyFeedback after
// executing it, and may checkpoint the learned state to a store between
// sessions.
package darwin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"darwin/internal/config"
	"darwin/internal/engine"
	"darwin/internal/model"
	"darwin/internal/random"
	"darwin/internal/storage"
)

const defaultDBPath = "darwin.db"

type Options struct {
	Seeds          int
	Operators      int
	PopulationSize int
	EliteCount     int
	LearningRate   float64
	Encoding       string
	RandSeed       int64

	StoreKind string
	DBPath    string
	Logger    *slog.Logger
}

type Client struct {
	store storage.Store
	log   *slog.Logger

	mu     sync.RWMutex
	engine *engine.Engine
	rng    random.Source

	storeReady bool
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Seeds        int
	Operators    int
	Generations  int
	Encoding     string
}

type CheckpointSummary struct {
	RunID        string
	CreatedAtUTC string
	Generations  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	randSeed := opts.RandSeed
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}

	encoding, err := engine.ParseEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	params := engine.Parameters{
		PopulationSize: opts.PopulationSize,
		EliteCount:     opts.EliteCount,
		LearningRate:   opts.LearningRate,
		Encoding:       encoding,
	}
	if params.PopulationSize == 0 {
		params.PopulationSize = engine.DefaultPopulationSize
	}
	if params.EliteCount == 0 {
		params.EliteCount = engine.DefaultEliteCount
	}
	if params.LearningRate == 0 {
		params.LearningRate = engine.DefaultLearningRate
	}

	rng := random.NewLocked(randSeed)
	eng, err := engine.New(engine.Config{
		Seeds:      opts.Seeds,
		Operators:  opts.Operators,
		Parameters: params,
		Rand:       rng,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:  store,
		log:    opts.Logger,
		engine: eng,
		rng:    rng,
	}, nil
}

// NewFromConfig builds a client from a parsed configuration file.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(Options{
		Seeds:          cfg.Engine.Seeds,
		Operators:      cfg.Engine.Operators,
		PopulationSize: cfg.Engine.PopulationSize,
		EliteCount:     cfg.Engine.EliteCount,
		LearningRate:   cfg.Engine.LearningRate,
		Encoding:       cfg.Engine.Encoding,
		RandSeed:       cfg.Engine.RandSeed,
		StoreKind:      cfg.Store.Kind,
		DBPath:         cfg.Store.Path,
		Logger:         logger,
	})
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// SelectOperator picks the next mutation operator to apply to the seed.
func (c *Client) SelectOperator(seed int) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.SelectOperator(seed)
}

// NotifyFeedback reports how many new paths the last mutation of the
// seed uncovered.
func (c *Client) NotifyFeedback(seed, numPaths int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.NotifyFeedback(seed, numPaths)
}

// ParentRepresentation exposes the seed's packed best-mask encoding.
func (c *Client) ParentRepresentation(seed int) (uint32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.ParentRepresentation(seed)
}

// Probabilities returns the seed's learned per-operator probabilities.
func (c *Client) Probabilities(seed int) ([]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Probabilities(seed)
}

// Generations returns the number of completed generations for the seed.
func (c *Client) Generations(seed int) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Generations(seed)
}

func (c *Client) Seeds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Seeds()
}

func (c *Client) Operators() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Operators()
}

// Checkpoint persists the engine's learned state under a fresh run id
// and appends a run record for listing.
func (c *Client) Checkpoint(ctx context.Context) (CheckpointSummary, error) {
	if err := c.ensureStore(ctx); err != nil {
		return CheckpointSummary{}, err
	}

	c.mu.RLock()
	snapshot := c.engine.Snapshot()
	c.mu.RUnlock()

	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	snapshot.VersionedRecord = model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
	snapshot.RunID = runID
	snapshot.CreatedAtUTC = now

	if err := c.store.SaveEngineSnapshot(ctx, snapshot); err != nil {
		return CheckpointSummary{}, err
	}

	generations := 0
	for _, seed := range snapshot.Seeds {
		generations += seed.Generations
	}
	record := model.RunRecord{
		VersionedRecord: snapshot.VersionedRecord,
		RunID:           runID,
		CreatedAtUTC:    now,
		Seeds:           len(snapshot.Seeds),
		Operators:       snapshot.Operators,
		Generations:     generations,
		Encoding:        snapshot.Encoding,
	}
	if err := c.store.AppendRunRecord(ctx, record); err != nil {
		return CheckpointSummary{}, err
	}

	if c.log != nil {
		c.log.Info("checkpoint saved", "run_id", runID, "generations", generations)
	}
	return CheckpointSummary{RunID: runID, CreatedAtUTC: now, Generations: generations}, nil
}

// Restore replaces the client's engine with the state saved under runID.
func (c *Client) Restore(ctx context.Context, runID string) error {
	if runID == "" {
		return errors.New("run id is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return err
	}

	snapshot, ok, err := c.store.GetEngineSnapshot(ctx, runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("snapshot not found for run id: %s", runID)
	}

	eng, err := engine.FromSnapshot(snapshot, c.rng, c.log)
	if err != nil {
		return fmt.Errorf("restore %s: %w", runID, err)
	}

	c.mu.Lock()
	c.engine = eng
	c.mu.Unlock()

	if c.log != nil {
		c.log.Info("state restored", "run_id", runID)
	}
	return nil
}

// Runs lists checkpointed runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	records, err := c.store.ListRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > req.Limit {
		records = records[:req.Limit]
	}

	out := make([]RunItem, 0, len(records))
	for _, r := range records {
		out = append(out, RunItem{
			RunID:        r.RunID,
			CreatedAtUTC: r.CreatedAtUTC,
			Seeds:        r.Seeds,
			Operators:    r.Operators,
			Generations:  r.Generations,
			Encoding:     r.Encoding,
		})
	}
	return out, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storeReady {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.storeReady = true
	return nil
}
