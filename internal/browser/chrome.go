package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"srttranslate/internal/config"
	"srttranslate/internal/logging"
	"srttranslate/internal/services"
)

// ChromeOptions configures the Chrome launcher.
type ChromeOptions struct {
	ExecPath          string
	Headless          bool
	NavigationTimeout time.Duration
	Logger            *slog.Logger
}

// Chrome launches headless Chrome (or Chromium) tabs through chromedp.
type Chrome struct {
	opts   ChromeOptions
	logger *slog.Logger
}

// NewChrome constructs a Chrome launcher.
func NewChrome(opts ChromeOptions) *Chrome {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = time.Minute
	}
	return &Chrome{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "browser")}
}

// NewChromeFromConfig maps the [browser] config section onto a launcher.
func NewChromeFromConfig(cfg *config.Config, logger *slog.Logger) *Chrome {
	return NewChrome(ChromeOptions{
		ExecPath:          cfg.Browser.ExecPath,
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.NavigationTimeout(),
		Logger:            logger,
	})
}

// Open starts a browser process with one tab. The process exits on Close.
func (c *Chrome) Open(ctx context.Context) (Page, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", c.opts.Headless))
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	p := &chromePage{
		tabCtx:  tabCtx,
		cancel:  func() { cancelTab(); cancelAlloc() },
		timeout: c.opts.NavigationTimeout,
		events:  newLifecycle(),
		logger:  c.logger,
	}
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			p.events.observe(e)
		}
	})

	// The first Run allocates the browser and binds its lifetime to tabCtx,
	// so it must not run under a per-call timeout.
	stop := context.AfterFunc(ctx, p.cancel)
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		if tree != nil && tree.Frame != nil {
			p.events.setMainFrame(tree.Frame.ID)
		}
		return page.SetLifecycleEventsEnabled(true).Do(ctx)
	}))
	stop()
	if err != nil {
		p.cancel()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrExternalTool, "browser", "launch", "start headless browser", err)
	}
	c.logger.Debug("browser tab opened", logging.Bool("headless", c.opts.Headless))
	return p, nil
}

type chromePage struct {
	tabCtx  context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger
	events  *lifecycle

	mu     sync.Mutex
	closed bool
}

func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.tabCtx, p.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) Reload(ctx context.Context) error {
	if err := p.run(ctx, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (p *chromePage) WaitNetworkIdle(ctx context.Context) error {
	idle := p.events.settled()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("network idle not reached within %s", p.timeout)
	}
}

func (p *chromePage) WaitSelector(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return text, nil
}

func (p *chromePage) ViewportHeight(ctx context.Context) (int, error) {
	return p.evalInt(ctx, `window.innerHeight`)
}

func (p *chromePage) ScrollHeight(ctx context.Context) (int, error) {
	return p.evalInt(ctx, `document.body ? document.body.scrollHeight : 0`)
}

func (p *chromePage) evalInt(ctx context.Context, expr string) (int, error) {
	var v int
	if err := p.run(ctx, chromedp.Evaluate(expr, &v)); err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	return v, nil
}

func (p *chromePage) ScrollTo(ctx context.Context, y int) error {
	expr := fmt.Sprintf(`window.scrollTo(0, %d)`, y)
	if err := p.run(ctx, chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("scroll to %d: %w", y, err)
	}
	return nil
}

func (p *chromePage) Content(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture content: %w", err)
	}
	return html, nil
}

func (p *chromePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.cancel()
	return nil
}
