//go:build sqlite

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	darwinapi "darwin/pkg/darwin"
)

func TestRunCommandSQLitePersistsCheckpoint(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "darwin.db")

	args := []string{
		"run",
		"--store", "sqlite",
		"--db-path", dbPath,
		"--seeds", "2",
		"--operators", "6",
		"--iterations", "100",
		"--seed", "11",
		"--checkpoint",
		"--log-level", "error",
	}
	if err := run(ctx, args); err != nil {
		t.Fatalf("run command: %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected sqlite db at %s: %v", dbPath, err)
	}

	client, err := darwinapi.New(darwinapi.Options{
		Seeds:     1,
		Operators: 1,
		StoreKind: "sqlite",
		DBPath:    dbPath,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	runs, err := client.Runs(ctx, darwinapi.RunsRequest{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Seeds != 2 || runs[0].Operators != 6 {
		t.Fatalf("unexpected run shape: %+v", runs[0])
	}

	if err := run(ctx, []string{"runs", "--store", "sqlite", "--db-path", dbPath}); err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if err := run(ctx, []string{"probabilities", "--store", "sqlite", "--db-path", dbPath, "--run-id", runs[0].RunID}); err != nil {
		t.Fatalf("probabilities command: %v", err)
	}

	if err := client.Restore(ctx, runs[0].RunID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if client.Seeds() != 2 || client.Operators() != 6 {
		t.Fatalf("restored shape seeds=%d operators=%d", client.Seeds(), client.Operators())
	}
}
