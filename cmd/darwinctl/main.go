package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"darwin/internal/config"
	"darwin/internal/storage"
	darwinapi "darwin/pkg/darwin"
	"darwin/pkg/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "probabilities":
		return runProbabilities(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "darwin.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config path")
	seeds := fs.Int("seeds", 4, "number of input seeds")
	operators := fs.Int("operators", 16, "number of mutation operators")
	population := fs.Int("pop", 0, "candidate population size per seed")
	eliteCount := fs.Int("elites", 0, "elite count per generation")
	learningRate := fs.Float64("lr", 0, "probability update learning rate")
	encoding := fs.String("encoding", "", "candidate encoding: boolean|real")
	randSeed := fs.Int64("seed", 1, "rng seed")
	iterations := fs.Int("iterations", 2000, "select/feedback cycles per seed")
	checkpoint := fs.Bool("checkpoint", false, "persist learned state when the run completes")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "darwin.db", "sqlite database path")
	logLevel := fs.String("log-level", "info", "log level: debug|info|warn|error")
	logFormat := fs.String("log-format", "text", "log format: json|text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *iterations <= 0 {
		return errors.New("iterations must be > 0")
	}

	log := newLogger(*logLevel, *logFormat)

	var client *darwinapi.Client
	var err error
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		log = newLogger(cfg.Log.Level, cfg.Log.Format)
		client, err = darwinapi.NewFromConfig(cfg, log)
		if err != nil {
			return err
		}
	} else {
		client, err = darwinapi.New(darwinapi.Options{
			Seeds:          *seeds,
			Operators:      *operators,
			PopulationSize: *population,
			EliteCount:     *eliteCount,
			LearningRate:   *learningRate,
			Encoding:       *encoding,
			RandSeed:       *randSeed,
			StoreKind:      *storeKind,
			DBPath:         *dbPath,
			Logger:         log,
		})
		if err != nil {
			return err
		}
	}
	defer func() {
		_ = client.Close()
	}()

	env := newSyntheticEnvironment(client.Operators(), rand.New(rand.NewSource(*randSeed+1000)))
	result, err := runHarness(client, env, *iterations)
	if err != nil {
		return err
	}

	log.Info("run complete",
		"seeds", client.Seeds(),
		"operators", client.Operators(),
		"iterations", *iterations,
		"total_paths", result.TotalPaths,
	)
	for s := 0; s < client.Seeds(); s++ {
		probs, err := client.Probabilities(s)
		if err != nil {
			return err
		}
		generations, err := client.Generations(s)
		if err != nil {
			return err
		}
		fmt.Printf("seed %d generations=%d probabilities=%s\n", s, generations, formatProbabilities(probs))
	}

	if *checkpoint {
		summary, err := client.Checkpoint(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("checkpointed run_id=%s generations=%d\n", summary.RunID, summary.Generations)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "darwin.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := darwinapi.New(darwinapi.Options{
		Seeds:     1,
		Operators: 1,
		StoreKind: *storeKind,
		DBPath:    *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, darwinapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		payload, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  created=%s seeds=%d operators=%d generations=%d encoding=%s\n",
			r.RunID, r.CreatedAtUTC, r.Seeds, r.Operators, r.Generations, r.Encoding)
	}
	return nil
}

func runProbabilities(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("probabilities", flag.ContinueOnError)
	runID := fs.String("run-id", "", "checkpointed run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "darwin.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	client, err := darwinapi.New(darwinapi.Options{
		Seeds:     1,
		Operators: 1,
		StoreKind: *storeKind,
		DBPath:    *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Restore(ctx, *runID); err != nil {
		return err
	}

	for s := 0; s < client.Seeds(); s++ {
		probs, err := client.Probabilities(s)
		if err != nil {
			return err
		}
		fmt.Printf("seed %d probabilities=%s\n", s, formatProbabilities(probs))
	}
	return nil
}

func newLogger(level, format string) *slog.Logger {
	if format == "text" {
		return logger.NewText(level, os.Stderr)
	}
	return logger.New(level, os.Stderr)
}

func formatProbabilities(probs []float64) string {
	out := "["
	for i, p := range probs {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%.3f", p)
	}
	return out + "]"
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: darwinctl <init|run|runs|probabilities> [flags]", msg)
}
