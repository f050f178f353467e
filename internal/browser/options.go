package browser

import (
	"context"
	"log/slog"
	"time"

	"srttranslate/internal/config"
	"srttranslate/internal/subtitle"
)

const (
	DefaultPollInterval  = 5 * time.Second
	DefaultVerifyTimeout = 15 * time.Minute
)

// Update reports progress from a browser operation.
type Update struct {
	// Attempt is the verification retry counter (1-based); zero for scroll updates.
	Attempt int
	// Percent is the scroll position as a percentage of page height.
	Percent float64
	Message string
}

// Options tunes VerifyLive and ExtractTranslated.
type Options struct {
	PollInterval time.Duration
	Timeout      time.Duration
	// ScrollPause is the wait after each scroll step; zero disables it.
	ScrollPause   time.Duration
	WrapThreshold int
	// Notify receives progress updates; nil discards them.
	Notify func(Update)
	Logger *slog.Logger
}

// OptionsFromConfig maps the [browser] and [extraction] config sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PollInterval:  cfg.PollInterval(),
		Timeout:       cfg.VerifyTimeout(),
		ScrollPause:   cfg.ScrollPause(),
		WrapThreshold: cfg.Extraction.WrapThreshold,
	}
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultVerifyTimeout
	}
	if o.ScrollPause < 0 {
		o.ScrollPause = 0
	}
	if o.WrapThreshold <= 0 {
		o.WrapThreshold = subtitle.DefaultWrapThreshold
	}
	return o
}

func (o Options) notify(u Update) {
	if o.Notify != nil {
		o.Notify(u)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
