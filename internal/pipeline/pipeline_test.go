package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srttranslate/internal/history"
	"srttranslate/internal/services"
	"srttranslate/internal/testsupport"
)

// Entry 2 has no text and entry 4 has no timing; both are dropped.
const sampleInput = "1\n00:00:01,000 --> 00:00:02,000\nHello there\nGeneral Kenobi\n\n" +
	"2\n00:00:03,000 --> 00:00:04,000\n\n" +
	"3\n00:00:05,000 --> 00:00:06,000\nshort line\n\n" +
	"4\nSome text\n\n"

const expectedOutput = "1\n00:00:01,000 --> 00:00:02,000\ntranslated: Hello there\nGeneral Kenobi\n\n" +
	"3\n00:00:05,000 --> 00:00:06,000\ntranslated: short line\n\n"

type fixture struct {
	opts    Options
	target  *fakeTarget
	input   string
	output  string
	events  []Event
	history *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	input := filepath.Join(base, "movie.srt")
	testsupport.WriteFile(t, input, sampleInput)

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		target:  &fakeTarget{verify: true},
		input:   input,
		output:  filepath.Join(base, "movie.translated.srt"),
		history: store,
	}
	f.opts = Options{
		Config:     cfg,
		Target:     f.target,
		Launcher:   &translationService{target: f.target},
		InputPath:  input,
		OutputPath: f.output,
		Events:     func(ev Event) { f.events = append(f.events, ev) },
		History:    store,
	}
	return f
}

func (f *fixture) run(t *testing.T) (Result, error) {
	t.Helper()
	p, err := New(f.opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p.Run(context.Background())
}

func (f *fixture) hasEvent(phase Phase, kind Kind) bool {
	for _, ev := range f.events {
		if ev.Phase == phase && ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t)

	result, err := f.run(t)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.State != StateDone || result.Entries != 2 {
		t.Fatalf("result = %+v", result)
	}
	got, err := os.ReadFile(f.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != expectedOutput {
		t.Fatalf("output =\n%q\nwant\n%q", got, expectedOutput)
	}

	if !strings.Contains(f.target.page(), result.RunID) {
		t.Fatal("published page should carry the run id")
	}
	if f.target.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", f.target.teardowns)
	}
	for _, phase := range []Phase{PhaseRead, PhasePublish, PhaseVerify, PhaseTranslate, PhaseWrite} {
		if !f.hasEvent(phase, KindComplete) {
			t.Fatalf("missing complete event for %s: %+v", phase, f.events)
		}
	}
	if f.hasEvent(PhaseCleanup, KindStart) {
		t.Fatal("cleanup should not run without DeleteInput")
	}

	diag, err := os.ReadFile(filepath.Join(f.opts.Config.Paths.DistDir, TranslatedMarkupFile))
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	if strings.Contains(string(diag), "original-text") || !strings.Contains(string(diag), "translated: short line") {
		t.Fatalf("unexpected diagnostics markup:\n%s", diag)
	}

	run, err := f.history.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if run.State != string(StateDone) || run.Entries != 2 || run.FinishedAt == nil || run.Mode != "fake" {
		t.Fatalf("history record = %+v", run)
	}
	if _, err := os.Stat(f.input); err != nil {
		t.Fatalf("input should remain: %v", err)
	}
}

func TestRunWriteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first, _ := os.ReadFile(f.output)
	if _, err := f.run(t); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	second, _ := os.ReadFile(f.output)
	if string(first) != string(second) {
		t.Fatalf("output changed between runs:\n%q\n%q", first, second)
	}
}

func TestRunOverwritesInputWhenNoOutputGiven(t *testing.T) {
	f := newFixture(t)
	f.opts.OutputPath = ""
	f.opts.DeleteInput = true

	result, err := f.run(t)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.OutputPath != f.input {
		t.Fatalf("OutputPath = %q", result.OutputPath)
	}
	got, err := os.ReadFile(f.input)
	if err != nil || string(got) != expectedOutput {
		t.Fatalf("input not overwritten: %q, %v", got, err)
	}
	if result.State != StateDone || f.hasEvent(PhaseCleanup, KindStart) {
		t.Fatal("input equal to output must not be deleted")
	}
}

func TestRunDeletesInput(t *testing.T) {
	f := newFixture(t)
	f.opts.DeleteInput = true

	if _, err := f.run(t); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(f.input); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("input should be deleted, stat err = %v", err)
	}
	if !f.hasEvent(PhaseCleanup, KindComplete) {
		t.Fatal("missing cleanup complete event")
	}
}

func TestRunUnreadableInputFailsBeforePublish(t *testing.T) {
	f := newFixture(t)
	f.opts.InputPath = filepath.Join(t.TempDir(), "missing.srt")

	result, err := f.run(t)
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
	if result.State != StateInit {
		t.Fatalf("State = %s", result.State)
	}
	if f.target.publishes != 0 || f.target.teardowns != 0 {
		t.Fatalf("no publish side effects expected: publishes=%d teardowns=%d", f.target.publishes, f.target.teardowns)
	}
	if _, statErr := os.Stat(f.output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output should not exist: %v", statErr)
	}
	if !f.hasEvent(PhaseRead, KindFail) {
		t.Fatal("missing read fail event")
	}
}

func TestRunPublishMarkerErrorContinues(t *testing.T) {
	f := newFixture(t)
	f.target.publishErr = services.Wrap(services.ErrPublish, "publish", "run publish command", "output contains ERROR", nil)

	result, err := f.run(t)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(result.PublishWarning, services.ErrPublish) {
		t.Fatalf("PublishWarning = %v", result.PublishWarning)
	}
	if !f.hasEvent(PhasePublish, KindFail) || result.State != StateDone {
		t.Fatalf("expected publish fail event and completed run, events=%+v", f.events)
	}
}

func TestRunFatalPublishErrorTearsDown(t *testing.T) {
	f := newFixture(t)
	f.target.publishErr = services.Wrap(services.ErrPortInUse, "publish", "listen", "port 3333 is already bound", nil)

	result, err := f.run(t)
	if !errors.Is(err, services.ErrPortInUse) {
		t.Fatalf("expected ErrPortInUse, got %v", err)
	}
	if f.target.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", f.target.teardowns)
	}
	if _, statErr := os.Stat(f.output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output should not exist: %v", statErr)
	}
	run, getErr := f.history.Get(context.Background(), result.RunID)
	if getErr != nil {
		t.Fatalf("history Get: %v", getErr)
	}
	if run.State != string(StateFailed) || !strings.Contains(run.Error, "port in use") {
		t.Fatalf("history record = %+v", run)
	}
}

func TestRunBrowserFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.target.verify = false
	f.opts.Launcher = &translationService{target: f.target, openErr: errors.New("chrome not found")}

	result, err := f.run(t)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if result.State != StateVerified {
		t.Fatalf("State = %s, want %s", result.State, StateVerified)
	}
	if !f.hasEvent(PhaseTranslate, KindFail) {
		t.Fatal("missing translate fail event")
	}
	if _, statErr := os.Stat(f.output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output should not exist: %v", statErr)
	}
}

func TestRunIDsAreDistinct(t *testing.T) {
	f := newFixture(t)
	a, err := New(f.opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(f.opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Fatalf("run ids not distinct: %q %q", a.RunID(), b.RunID())
	}
}

func TestNewValidatesOptions(t *testing.T) {
	f := newFixture(t)
	opts := f.opts
	opts.Target = nil
	if _, err := New(opts); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	opts = f.opts
	opts.InputPath = ""
	if _, err := New(opts); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
