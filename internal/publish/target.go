package publish

import (
	"context"
	"fmt"
	"log/slog"

	"srttranslate/internal/config"
	"srttranslate/internal/services"
)

// IndexFile is the file name the rendered page is published under.
const IndexFile = "index.html"

// Target publishes markup and reports where it (and its translation) can be read.
type Target interface {
	Name() string
	Publish(ctx context.Context, markup []byte) error
	// URL is where the published page is served.
	URL() string
	// TranslatedURL is the translation-service mirror of URL.
	TranslatedURL() string
	// RequiresVerification reports whether the pipeline should poll URL until
	// the freshly published run id is visible.
	RequiresVerification() bool
	// Teardown releases anything Publish acquired. Safe to call more than once.
	Teardown(ctx context.Context) error
}

// New builds the target selected by cfg.Deployment.Mode.
func New(cfg *config.Config, logger *slog.Logger) (Target, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "select target", "config is required", nil)
	}
	switch cfg.Deployment.Mode {
	case config.ModeLocal:
		return NewLocal(LocalOptions{
			DistDir:       cfg.Paths.DistDir,
			StateDir:      cfg.Paths.StateDir,
			Port:          cfg.Deployment.LocalPort,
			URL:           cfg.URLs.LocalServingURL,
			TranslatedURL: cfg.URLs.TranslatedLocalURL,
			Logger:        logger,
		}), nil
	case config.ModeRemote:
		return NewRemote(RemoteOptions{
			SiteDir:       cfg.Paths.SiteDir,
			DistDir:       cfg.Paths.DistDir,
			Command:       cfg.Deployment.PublishCommand,
			ErrorMarker:   cfg.Deployment.ErrorMarker,
			URL:           cfg.URLs.RemoteHostedURL,
			TranslatedURL: cfg.URLs.TranslatedRemoteURL,
			Verify:        cfg.Deployment.RemoteVerify,
			Logger:        logger,
		}), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "publish", "select target",
			fmt.Sprintf("unknown deployment mode %q", cfg.Deployment.Mode), nil)
	}
}
