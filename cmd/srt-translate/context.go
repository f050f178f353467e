package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"srttranslate/internal/browser"
	"srttranslate/internal/config"
	"srttranslate/internal/logging"
	"srttranslate/internal/preflight"
	"srttranslate/internal/publish"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	newTarget    func(*config.Config, *slog.Logger) (publish.Target, error)
	newLauncher  func(*config.Config, *slog.Logger) browser.Launcher
	runPreflight func(context.Context, *config.Config) []preflight.Result
	runDoctor    func(context.Context, *config.Config) []preflight.Result
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		newTarget:  publish.New,
		newLauncher: func(cfg *config.Config, logger *slog.Logger) browser.Launcher {
			return browser.NewChromeFromConfig(cfg, logger)
		},
		runPreflight: preflight.RunOffline,
		runDoctor:    preflight.RunAll,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
