package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"srttranslate/internal/config"
	"srttranslate/internal/history"
	"srttranslate/internal/logging"
	"srttranslate/internal/notifications"
	"srttranslate/internal/pipeline"
	"srttranslate/internal/preflight"
	"srttranslate/internal/progress"
	"srttranslate/internal/rename"
	"srttranslate/internal/services"
	"srttranslate/internal/transcoder"
)

type translateOptions struct {
	stream      int
	deleteInput bool
	mode        string
}

func (o *translateOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.stream, "stream", -1, "Subtitle stream index to extract from media input")
	cmd.Flags().StringVar(&o.mode, "mode", "", "Publish mode override (local or remote)")
}

// bindDeleteInput is only offered where an output path distinct from the
// input can be given; translations written in place never delete anything.
func (o *translateOptions) bindDeleteInput(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.deleteInput, "delete-input", false, "Delete the input .srt after writing to a separate output path")
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <input> [output]",
		Short: "Translate a subtitle file, extracting it from media first when needed",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig(opts.mode)
			if err != nil {
				return err
			}
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			notifier := notifications.New(cfg)
			result, err := ctx.translateFile(cmd, cfg, args[0], output, opts)
			if err != nil {
				ctx.notify("run failed", notifier.RunFailed(cmd.Context(), args[0], err))
				return err
			}
			printResult(cmd, result)
			ctx.notify("run completed", notifier.RunCompleted(cmd.Context(), result.OutputPath, result.Entries, result.Duration))
			return nil
		},
	}
	opts.bind(cmd)
	opts.bindDeleteInput(cmd)
	return cmd
}

func newTranslateAllCommand(ctx *commandContext) *cobra.Command {
	var opts translateOptions
	var ext string

	cmd := &cobra.Command{
		Use:   "translate-all <dir>",
		Short: "Translate every file with the given extension in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig(opts.mode)
			if err != nil {
				return err
			}
			inputs, err := rename.ListByExt(args[0], ext)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := progress.ShouldColorize(out)
			if len(inputs) == 0 {
				fmt.Fprintf(out, "No .%s files in %s\n", strings.TrimPrefix(ext, "."), args[0])
				return nil
			}

			notifier := notifications.New(cfg)
			started := time.Now()
			var failed int
			for _, input := range inputs {
				result, err := ctx.translateFile(cmd, cfg, input, "", opts)
				name := filepath.Base(input)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return err
					}
					failed++
					ctx.notify("run failed", notifier.RunFailed(cmd.Context(), input, err))
					fmt.Fprintln(out, progress.StatusLine(name, progress.KindError, err.Error(), colorize))
					continue
				}
				fmt.Fprintln(out, progress.StatusLine(name, progress.KindOK,
					fmt.Sprintf("%d entries -> %s", result.Entries, result.OutputPath), colorize))
			}
			ctx.notify("batch completed", notifier.BatchCompleted(cmd.Context(), len(inputs)-failed, failed, time.Since(started)))
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(inputs))
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&ext, "ext", "mkv", "File extension to translate")
	return cmd
}

// runConfig returns the loaded config with an optional mode override applied.
func (c *commandContext) runConfig(mode string) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" || mode == cfg.Deployment.Mode {
		return cfg, nil
	}
	override := *cfg
	override.Deployment.Mode = mode
	if err := override.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "mode override", "invalid --mode", err)
	}
	return &override, nil
}

func (c *commandContext) translateFile(cmd *cobra.Command, cfg *config.Config, input, output string, opts translateOptions) (pipeline.Result, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.RequireTranslatedURL(); err != nil {
		return pipeline.Result{}, services.Wrap(services.ErrConfiguration, "cli", "translate", "translated url missing", err)
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return pipeline.Result{}, err
	}

	input, err = filepath.Abs(input)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("resolve input path: %w", err)
	}
	if output != "" {
		if output, err = filepath.Abs(output); err != nil {
			return pipeline.Result{}, fmt.Errorf("resolve output path: %w", err)
		}
	}

	if err := checkInput(input); err != nil {
		return pipeline.Result{}, err
	}

	if !strings.EqualFold(filepath.Ext(input), ".srt") {
		extracted, err := extractSubtitles(ctx, cfg, logger, input, opts.stream)
		if err != nil {
			return pipeline.Result{}, err
		}
		input = extracted
	}

	if c.runPreflight != nil {
		if failed := preflight.Failed(c.runPreflight(ctx, cfg)); len(failed) > 0 {
			details := make([]string, 0, len(failed))
			for _, r := range failed {
				details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
			}
			return pipeline.Result{}, services.Wrap(services.ErrConfiguration, "cli", "preflight", strings.Join(details, "; "), nil)
		}
	}

	target, err := c.newTarget(cfg, logger)
	if err != nil {
		return pipeline.Result{}, err
	}

	renderer := progress.NewRenderer(cmd.ErrOrStderr())
	pipeOpts := pipeline.Options{
		Config:      cfg,
		Target:      target,
		Launcher:    c.newLauncher(cfg, logger),
		InputPath:   input,
		OutputPath:  output,
		DeleteInput: opts.deleteInput,
		Logger:      logger,
		Events:      renderer.Handle,
	}
	if store, err := history.Open(cfg.HistoryPath()); err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
	} else {
		defer store.Close()
		pipeOpts.History = store
	}

	p, err := pipeline.New(pipeOpts)
	if err != nil {
		return pipeline.Result{}, err
	}
	return p.Run(ctx)
}

// checkInput rejects a missing or unreadable input before anything is
// extracted, probed or published.
func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrInput, "cli", "read input", path, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrInput, "cli", "read input", path+" is a directory", nil)
	}
	return nil
}

// notify logs a failed notification; delivery problems never fail a command.
func (c *commandContext) notify(what string, err error) {
	if err == nil {
		return
	}
	logger, lerr := c.ensureLogger()
	if lerr != nil {
		return
	}
	logging.WarnWithContext(logger, "notification failed", "notification_failed",
		logging.String("notification", what),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
	)
}

func extractSubtitles(ctx context.Context, cfg *config.Config, logger *slog.Logger, media string, stream int) (string, error) {
	tc := transcoder.New(cfg.Transcoder, logger)
	if stream >= 0 {
		return tc.ExtractStream(ctx, media, stream)
	}
	return tc.Extract(ctx, media)
}

func printResult(cmd *cobra.Command, result pipeline.Result) {
	out := cmd.OutOrStdout()
	colorize := progress.ShouldColorize(out)
	if result.PublishWarning != nil {
		fmt.Fprintln(out, progress.StatusLine("Publish", progress.KindWarn, result.PublishWarning.Error(), colorize))
	}
	fmt.Fprintln(out, progress.StatusLine("Translated", progress.KindOK,
		fmt.Sprintf("%d entries -> %s (run %s, %s)", result.Entries, result.OutputPath, result.RunID, result.Duration.Round(time.Millisecond)), colorize))
}
