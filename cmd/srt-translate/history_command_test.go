package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"srttranslate/internal/history"
)

func TestHistoryCommandListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	store, err := history.Open(env.cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	finished := time.Now().UTC()
	run := &history.Run{
		RunID:      "0f8fad5b-d9cb-469f-a165-70867728950e",
		InputPath:  "/media/episode.srt",
		OutputPath: "/media/episode.srt",
		Mode:       "local",
		State:      "DONE",
		Entries:    42,
		StartedAt:  finished.Add(-90 * time.Second),
		FinishedAt: &finished,
	}
	if err := store.Begin(context.Background(), run); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = store.Close()

	out, _, err = runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "0f8fad5b")
	requireContains(t, out, "DONE")
	requireContains(t, out, "42")
	requireContains(t, out, "1m30s")

	out, _, err = runCLI(t, env, "history", "--run", run.RunID)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "Input:    /media/episode.srt")
	requireContains(t, out, "Entries:  42")

	if _, _, err := runCLI(t, env, "history", "--run", "missing"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
