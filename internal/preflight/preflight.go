package preflight

import (
	"context"

	"srttranslate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for the configured deployment mode, including
// a request to the translated mirror.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := RunOffline(ctx, cfg)
	if err := cfg.RequireTranslatedURL(); err != nil {
		results = append(results, Result{Name: "Translated URL", Detail: err.Error()})
	} else {
		results = append(results, CheckURL(ctx, "Translated URL", cfg.TranslatedURL()))
	}
	return results
}

// RunOffline executes the checks that touch only the local machine. In local
// mode the mirror proxies a server that is not running yet, so a translation
// run cannot probe it up front.
func RunOffline(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Dist directory", cfg.Paths.DistDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	switch cfg.Deployment.Mode {
	case config.ModeLocal:
		results = append(results, CheckPortFree("Local port", cfg.Deployment.LocalPort))
	case config.ModeRemote:
		results = append(results, CheckDirectoryAccess("Site directory", cfg.Paths.SiteDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
