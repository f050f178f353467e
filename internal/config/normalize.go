package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeURLs()
	c.normalizeDeployment()
	c.normalizeBrowser()
	if c.Extraction.WrapThreshold <= 0 {
		c.Extraction.WrapThreshold = defaultWrapThreshold
	}
	c.normalizeTranscoder()
	c.normalizeLogging()
	c.Notifications.NtfyTopic = envFallback(strings.TrimSpace(c.Notifications.NtfyTopic), "NTFY_TOPIC")
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DistDir) == "" {
		c.Paths.DistDir = defaultDistDir
	}
	if c.Paths.DistDir, err = expandPath(c.Paths.DistDir); err != nil {
		return fmt.Errorf("paths.dist_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SiteDir) == "" {
		c.Paths.SiteDir = defaultSiteDir
	}
	if c.Paths.SiteDir, err = expandPath(c.Paths.SiteDir); err != nil {
		return fmt.Errorf("paths.site_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeURLs() {
	c.URLs.LocalServingURL = envFallback(c.URLs.LocalServingURL, "LOCAL_SERVER_URL")
	c.URLs.TranslatedLocalURL = envFallback(c.URLs.TranslatedLocalURL, "TRANSLATED_LOCAL_SERVER_URL")
	c.URLs.RemoteHostedURL = envFallback(c.URLs.RemoteHostedURL, "GITHUB_PAGES_URL")
	c.URLs.TranslatedRemoteURL = envFallback(c.URLs.TranslatedRemoteURL, "TRANSLATED_GITHUB_PAGES_URL")
}

func (c *Config) normalizeDeployment() {
	c.Deployment.Mode = strings.ToLower(strings.TrimSpace(c.Deployment.Mode))
	if c.Deployment.Mode == "" {
		c.Deployment.Mode = defaultDeploymentMode
	}
	if c.Deployment.LocalPort == 0 {
		c.Deployment.LocalPort = defaultLocalPort
	}
	c.Deployment.PublishCommand = strings.TrimSpace(c.Deployment.PublishCommand)
	if c.Deployment.PublishCommand == "" {
		c.Deployment.PublishCommand = defaultPublishCommand
	}
	if c.Deployment.ErrorMarker == "" {
		c.Deployment.ErrorMarker = defaultErrorMarker
	}
}

func (c *Config) normalizeBrowser() {
	c.Browser.ExecPath = strings.TrimSpace(c.Browser.ExecPath)
	if c.Browser.ExecPath == "" {
		if value, ok := os.LookupEnv("CHROME_PATH"); ok {
			c.Browser.ExecPath = strings.TrimSpace(value)
		}
	}
	if c.Browser.PollIntervalSeconds <= 0 {
		c.Browser.PollIntervalSeconds = defaultPollInterval
	}
	if c.Browser.VerifyTimeoutSeconds <= 0 {
		c.Browser.VerifyTimeoutSeconds = defaultVerifyTimeout
	}
	if c.Browser.NavigationTimeoutSeconds <= 0 {
		c.Browser.NavigationTimeoutSeconds = defaultNavigationTimeout
	}
	if c.Browser.ScrollPauseMillis < 0 {
		c.Browser.ScrollPauseMillis = defaultScrollPauseMillis
	}
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.FFmpeg = strings.TrimSpace(c.Transcoder.FFmpeg)
	if c.Transcoder.FFmpeg == "" {
		c.Transcoder.FFmpeg = defaultFFmpegBinary
	}
	c.Transcoder.FFprobe = strings.TrimSpace(c.Transcoder.FFprobe)
	if c.Transcoder.FFprobe == "" {
		c.Transcoder.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = defaultLogMaxAgeDays
	}
}

func envFallback(value, key string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(env)
	}
	return ""
}
