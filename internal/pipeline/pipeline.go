package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"srttranslate/internal/browser"
	"srttranslate/internal/config"
	"srttranslate/internal/fileutil"
	"srttranslate/internal/history"
	"srttranslate/internal/logging"
	"srttranslate/internal/markup"
	"srttranslate/internal/publish"
	"srttranslate/internal/services"
	"srttranslate/internal/subtitle"
)

// TranslatedMarkupFile receives the sanitized translated page for diagnostics.
const TranslatedMarkupFile = "translated.html"

// Recorder persists run records. *history.Store satisfies it.
type Recorder interface {
	Begin(ctx context.Context, run *history.Run) error
	Update(ctx context.Context, run *history.Run) error
}

// Options wires a pipeline's collaborators.
type Options struct {
	Config   *config.Config
	Target   publish.Target
	Launcher browser.Launcher
	// InputPath is the subtitle file to translate.
	InputPath string
	// OutputPath defaults to InputPath.
	OutputPath  string
	DeleteInput bool
	Logger      *slog.Logger
	// Events receives progress events; nil discards them.
	Events  func(Event)
	History Recorder
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	State      State
	OutputPath string
	Entries    int
	// PublishWarning holds a non-fatal publish error, if one occurred.
	PublishWarning error
	Duration       time.Duration
}

// Pipeline executes a single translation run.
type Pipeline struct {
	opts    Options
	runID   string
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	record  *history.Run
}

// New validates options and assigns the run identifier.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "config is required", nil)
	}
	if opts.Target == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "publish target is required", nil)
	}
	if opts.Launcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "browser launcher is required", nil)
	}
	if opts.InputPath == "" {
		return nil, services.Wrap(services.ErrInput, "pipeline", "init", "input path is required", nil)
	}
	if opts.OutputPath == "" {
		opts.OutputPath = opts.InputPath
	}
	return &Pipeline{
		opts:    opts,
		runID:   uuid.NewString(),
		logger:  logging.NewComponentLogger(opts.Logger, "pipeline"),
		sampler: logging.NewProgressSampler(10),
	}, nil
}

// RunID returns the identifier embedded in this run's published page.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes every step. On failure the returned Result carries the state
// reached before the failing step.
func (p *Pipeline) Run(ctx context.Context) (result Result, err error) {
	started := time.Now()
	ctx = services.WithRunID(ctx, p.runID)
	result = Result{RunID: p.runID, State: StateInit, OutputPath: p.opts.OutputPath}
	p.begin(ctx)
	defer func() {
		result.Duration = time.Since(started)
		p.finish(ctx, &result, err)
	}()

	// INIT
	doc, page, err := p.prepare(ctx)
	if err != nil {
		return result, p.failed(ctx, PhaseRead, err)
	}

	// PUBLISHED
	defer p.teardown(ctx)
	p.emit(ctx, Event{Phase: PhasePublish, Kind: KindStart, Message: "Publishing to " + p.opts.Target.Name()})
	if err := p.opts.Target.Publish(phaseContext(ctx, PhasePublish), page); err != nil {
		if services.IsFatal(err) {
			return result, p.failed(ctx, PhasePublish, err)
		}
		result.PublishWarning = err
		logging.WarnWithContext(p.log(ctx, PhasePublish), "publish reported an error; continuing", "publish_warning",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the deployment log in the dist directory"),
			logging.String(logging.FieldImpact, "published page may be stale"),
		)
		p.emit(ctx, Event{Phase: PhasePublish, Kind: KindFail, Message: err.Error()})
	} else {
		p.emit(ctx, Event{Phase: PhasePublish, Kind: KindComplete, Message: "Published " + p.opts.Target.URL()})
	}
	p.transition(ctx, &result, StatePublished)

	// VERIFIED
	if p.opts.Target.RequiresVerification() {
		if err := p.verify(ctx); err != nil {
			return result, p.failed(ctx, PhaseVerify, err)
		}
	}
	p.transition(ctx, &result, StateVerified)

	// TRANSLATED
	translated, err := p.translate(ctx, len(doc))
	if err != nil {
		return result, p.failed(ctx, PhaseTranslate, err)
	}
	p.transition(ctx, &result, StateTranslated)

	// WRITTEN
	p.emit(ctx, Event{Phase: PhaseWrite, Kind: KindStart, Message: "Writing " + p.opts.OutputPath})
	if err := subtitle.WriteFile(p.opts.OutputPath, translated); err != nil {
		return result, p.failed(ctx, PhaseWrite, err)
	}
	result.Entries = translated.CompleteCount()
	p.emit(ctx, Event{Phase: PhaseWrite, Kind: KindComplete, Message: fmt.Sprintf("Wrote %d entries", result.Entries)})
	p.transition(ctx, &result, StateWritten)

	// CLEANED
	if p.opts.DeleteInput && !samePath(p.opts.InputPath, p.opts.OutputPath) {
		p.cleanup(ctx, &result)
	}

	p.transition(ctx, &result, StateDone)
	return result, nil
}

func (p *Pipeline) prepare(ctx context.Context) (subtitle.Document, []byte, error) {
	p.emit(ctx, Event{Phase: PhaseRead, Kind: KindStart, Message: "Reading " + p.opts.InputPath})
	doc, err := subtitle.ReadFile(p.opts.InputPath)
	if err != nil {
		return nil, nil, err
	}
	page, err := markup.Render(doc, p.runID)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrInput, "read", "render markup", p.opts.InputPath, err)
	}
	p.emit(ctx, Event{Phase: PhaseRead, Kind: KindComplete, Message: fmt.Sprintf("Read %d entries", len(doc))})
	return doc, page, nil
}

func (p *Pipeline) verify(ctx context.Context) error {
	url := p.opts.Target.URL()
	p.emit(ctx, Event{Phase: PhaseVerify, Kind: KindStart, Message: "Waiting for " + url})
	opts := browser.OptionsFromConfig(p.opts.Config)
	opts.Logger = p.opts.Logger
	opts.Notify = func(u browser.Update) {
		p.emit(ctx, Event{Phase: PhaseVerify, Kind: KindUpdate, Attempt: u.Attempt, Message: u.Message})
	}
	if err := browser.VerifyLive(phaseContext(ctx, PhaseVerify), p.opts.Launcher, url, p.runID, opts); err != nil {
		return err
	}
	p.emit(ctx, Event{Phase: PhaseVerify, Kind: KindComplete, Message: "Published page is live"})
	return nil
}

func (p *Pipeline) translate(ctx context.Context, inputEntries int) (subtitle.Document, error) {
	url := p.opts.Target.TranslatedURL()
	p.emit(ctx, Event{Phase: PhaseTranslate, Kind: KindStart, Message: "Translating via " + url})
	opts := browser.OptionsFromConfig(p.opts.Config)
	opts.Logger = p.opts.Logger
	opts.Notify = func(u browser.Update) {
		p.emit(ctx, Event{Phase: PhaseTranslate, Kind: KindUpdate, Percent: u.Percent, Message: u.Message})
	}
	extraction, err := browser.ExtractTranslated(phaseContext(ctx, PhaseTranslate), p.opts.Launcher, url, opts)
	if err != nil {
		return nil, err
	}

	logger := p.log(ctx, PhaseTranslate)
	diagPath := filepath.Join(p.opts.Config.Paths.DistDir, TranslatedMarkupFile)
	if err := fileutil.ReplaceFile(diagPath, []byte(extraction.Markup), 0o644); err != nil {
		logging.WarnWithContext(logger, "failed to save translated markup", "diagnostics_write_failed",
			logging.String("path", diagPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "translated.html diagnostics unavailable"),
		)
	}
	if extraction.RunID != "" && extraction.RunID != p.runID {
		logging.WarnWithContext(logger, "translated page carries a different run id", "run_id_mismatch",
			logging.String("seen_run_id", extraction.RunID),
			logging.String(logging.FieldErrorHint, "the translation service may be serving a cached copy"),
		)
	}
	if inputEntries > 0 && extraction.Document.CompleteCount() == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "translate", "extract entries",
			fmt.Sprintf("no translated entries found at %s; see %s", url, diagPath), nil)
	}
	p.emit(ctx, Event{Phase: PhaseTranslate, Kind: KindComplete,
		Message: fmt.Sprintf("Extracted %d entries", len(extraction.Document))})
	return extraction.Document, nil
}

func (p *Pipeline) cleanup(ctx context.Context, result *Result) {
	p.emit(ctx, Event{Phase: PhaseCleanup, Kind: KindStart, Message: "Removing " + p.opts.InputPath})
	if err := os.Remove(p.opts.InputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(p.log(ctx, PhaseCleanup), "failed to delete input", "cleanup_failed",
			logging.String("path", p.opts.InputPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "input file left in place"),
		)
		p.emit(ctx, Event{Phase: PhaseCleanup, Kind: KindFail, Message: err.Error()})
		return
	}
	p.emit(ctx, Event{Phase: PhaseCleanup, Kind: KindComplete, Message: "Input removed"})
	p.transition(ctx, result, StateCleaned)
}

func (p *Pipeline) teardown(ctx context.Context) {
	if err := p.opts.Target.Teardown(context.WithoutCancel(ctx)); err != nil {
		logging.WarnWithContext(p.log(ctx, PhasePublish), "publish teardown failed", "teardown_failed",
			logging.Error(err),
		)
	}
}

func (p *Pipeline) failed(ctx context.Context, phase Phase, err error) error {
	logging.ErrorWithContext(p.log(ctx, phase), "run failed", "run_failed",
		logging.Error(err),
		logging.String("marker", services.Marker(err)),
	)
	p.emit(ctx, Event{Phase: phase, Kind: KindFail, Message: err.Error()})
	return err
}

func (p *Pipeline) emit(ctx context.Context, ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	logger := p.log(ctx, ev.Phase)
	switch ev.Kind {
	case KindUpdate:
		if ev.Attempt > 0 || p.sampler.ShouldLog(ev.Percent, string(ev.Phase)) {
			logger.Debug(ev.Message,
				logging.String(logging.FieldEventType, "phase_progress"),
				logging.Float64("percent", ev.Percent),
				logging.Int("attempt", ev.Attempt),
			)
		}
	case KindFail:
	default:
		logger.Info(ev.Message, logging.String(logging.FieldEventType, "phase_"+string(ev.Kind)))
	}
	if p.opts.Events != nil {
		p.opts.Events(ev)
	}
}

func (p *Pipeline) log(ctx context.Context, phase Phase) *slog.Logger {
	return logging.WithContext(phaseContext(ctx, phase), p.logger)
}

func (p *Pipeline) begin(ctx context.Context) {
	p.record = &history.Run{
		RunID:      p.runID,
		InputPath:  p.opts.InputPath,
		OutputPath: p.opts.OutputPath,
		Mode:       p.opts.Target.Name(),
		State:      string(StateInit),
		StartedAt:  time.Now().UTC(),
	}
	if p.opts.History == nil {
		return
	}
	if err := p.opts.History.Begin(ctx, p.record); err != nil {
		logging.WarnWithContext(p.logger, "failed to record run start", "history_write_failed", logging.Error(err))
	}
}

func (p *Pipeline) transition(ctx context.Context, result *Result, state State) {
	result.State = state
	p.record.State = string(state)
	p.logger.Debug("state transition",
		logging.String(logging.FieldRunID, p.runID),
		logging.String("state", string(state)),
	)
	p.saveRecord(ctx)
}

func (p *Pipeline) finish(ctx context.Context, result *Result, err error) {
	finished := time.Now().UTC()
	p.record.FinishedAt = &finished
	p.record.Entries = result.Entries
	if err != nil {
		p.record.State = string(StateFailed)
		p.record.Error = err.Error()
	}
	p.saveRecord(context.WithoutCancel(ctx))
}

func (p *Pipeline) saveRecord(ctx context.Context) {
	if p.opts.History == nil || p.record.ID == 0 {
		return
	}
	if err := p.opts.History.Update(ctx, p.record); err != nil {
		logging.WarnWithContext(p.logger, "failed to update run record", "history_write_failed", logging.Error(err))
	}
}

func phaseContext(ctx context.Context, phase Phase) context.Context {
	return services.WithPhase(ctx, string(phase))
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
