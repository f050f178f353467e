package browser

import (
	"context"
	"strings"

	"srttranslate/internal/logging"
	"srttranslate/internal/markup"
	"srttranslate/internal/services"
	"srttranslate/internal/subtitle"
)

// Extraction is the result of reading a translated page.
type Extraction struct {
	Document subtitle.Document
	// Markup is the sanitized DOM, kept for diagnostics.
	Markup string
	// RunID is the run identifier found on the translated page, if any.
	RunID   string
	Removed int
}

// ExtractTranslated loads the translated mirror at url, scrolls through it so
// every entry is rendered, strips untranslated source text, and decodes the
// entries with their text re-wrapped.
func ExtractTranslated(ctx context.Context, launcher Launcher, url string, opts Options) (Extraction, error) {
	opts = opts.withDefaults()
	logger := logging.NewComponentLogger(opts.Logger, "extract")
	if strings.TrimSpace(url) == "" {
		return Extraction{}, services.Wrap(services.ErrConfiguration, "translate", "resolve url", "translated page URL is empty", nil)
	}

	page, err := launcher.Open(ctx)
	if err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "open browser", "", err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, url); err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "navigate", url, err)
	}
	if err := page.WaitNetworkIdle(ctx); err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "wait network idle", url, err)
	}
	if err := page.WaitSelector(ctx, markup.RunIDSelector); err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "wait for page", url, err)
	}

	if err := scrollThrough(ctx, page, opts); err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "scroll page", url, err)
	}

	content, err := page.Content(ctx)
	if err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "capture content", url, err)
	}
	root, err := markup.Parse(content)
	if err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "parse content", url, err)
	}
	removed := markup.Sanitize(root)
	doc := subtitle.RewrapAll(markup.Decode(root), opts.WrapThreshold)
	sanitized, err := markup.RenderNode(root)
	if err != nil {
		return Extraction{}, services.Wrap(services.ErrExternalTool, "translate", "render sanitized content", url, err)
	}

	logger.Info("translated page extracted",
		logging.String("url", url),
		logging.Int("entries", len(doc)),
		logging.Int("removed_elements", removed),
	)
	return Extraction{
		Document: doc,
		Markup:   sanitized,
		RunID:    markup.RunID(root),
		Removed:  removed,
	}, nil
}

// scrollThrough walks the page one viewport at a time. The page height is
// re-read after every step because lazily translated content can grow it.
func scrollThrough(ctx context.Context, page Page, opts Options) error {
	viewport, err := page.ViewportHeight(ctx)
	if err != nil {
		return err
	}
	height, err := page.ScrollHeight(ctx)
	if err != nil {
		return err
	}
	if viewport <= 0 {
		viewport = max(height, 1)
	}

	last := 0.0
	for y := 0; y < height; y += viewport {
		if err := page.ScrollTo(ctx, y); err != nil {
			return err
		}
		if err := sleep(ctx, opts.ScrollPause); err != nil {
			return err
		}
		if h, err := page.ScrollHeight(ctx); err == nil && h > height {
			height = h
		}
		last = min(100, float64(y+viewport)/float64(height)*100)
		opts.notify(Update{Percent: last, Message: "Scrolling"})
	}
	if last < 100 {
		opts.notify(Update{Percent: 100, Message: "Scrolling"})
	}
	return nil
}
