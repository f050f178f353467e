package browser

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"srttranslate/internal/logging"
	"srttranslate/internal/markup"
	"srttranslate/internal/services"
)

// VerifyLive polls url until the page's run-id element shows runID.
//
// Attempts start at most once per PollInterval. A mismatch, a missing
// element, or a failed reload counts as "not live yet". The loop gives up with
// an ErrTimeout error once Timeout elapses, and returns ctx's error if the
// caller cancels.
func VerifyLive(ctx context.Context, launcher Launcher, url, runID string, opts Options) error {
	opts = opts.withDefaults()
	logger := logging.NewComponentLogger(opts.Logger, "verify")
	if strings.TrimSpace(url) == "" {
		return services.Wrap(services.ErrConfiguration, "verify", "resolve url", "published page URL is empty", nil)
	}

	pollCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	page, err := launcher.Open(pollCtx)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "verify", "open browser", "", err)
	}
	defer page.Close()

	limiter := rate.NewLimiter(rate.Every(opts.PollInterval), 1)
	for attempt := 0; ; attempt++ {
		if err := limiter.Wait(pollCtx); err != nil {
			return verifyStopped(ctx, opts, attempt)
		}

		var stepErr error
		if attempt == 0 {
			stepErr = page.Navigate(pollCtx, url)
		} else {
			stepErr = page.Reload(pollCtx)
		}
		var seen string
		if stepErr == nil {
			seen, stepErr = readRunID(pollCtx, page)
		}
		if stepErr == nil && seen == runID {
			logger.Info("published page is live",
				logging.String("url", url),
				logging.Int("attempts", attempt+1),
			)
			return nil
		}
		if pollCtx.Err() != nil {
			return verifyStopped(ctx, opts, attempt)
		}

		retry := attempt + 1
		msg := fmt.Sprintf("Retrying %d times", retry)
		attrs := []logging.Attr{
			logging.String("url", url),
			logging.Int("attempt", retry),
		}
		if stepErr != nil {
			attrs = append(attrs, logging.Error(stepErr))
		} else {
			attrs = append(attrs, logging.String("seen_run_id", seen))
		}
		logger.Debug("published page not live yet", logging.Args(attrs...)...)
		opts.notify(Update{Attempt: retry, Message: msg})
	}
}

func readRunID(ctx context.Context, page Page) (string, error) {
	if err := page.WaitNetworkIdle(ctx); err != nil {
		return "", err
	}
	if err := page.WaitSelector(ctx, markup.RunIDSelector); err != nil {
		return "", err
	}
	text, err := page.Text(ctx, markup.RunIDSelector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// verifyStopped maps the end of the poll loop to an error. Anything other
// than caller cancellation is the poll budget running out, including the
// limiter refusing a wait that would overrun the deadline.
func verifyStopped(parent context.Context, opts Options, attempts int) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return services.Wrap(services.ErrTimeout, "verify", "wait for live page",
		fmt.Sprintf("run id not visible after %s (%d attempts)", opts.Timeout, attempts), nil)
}
