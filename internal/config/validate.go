package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDeployment(); err != nil {
		return err
	}
	if err := c.validateURLs(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDeployment() error {
	switch c.Deployment.Mode {
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("deployment.mode must be %q or %q, got %q", ModeLocal, ModeRemote, c.Deployment.Mode)
	}
	if c.Deployment.LocalPort < 1 || c.Deployment.LocalPort > 65535 {
		return fmt.Errorf("deployment.local_port must be between 1 and 65535, got %d", c.Deployment.LocalPort)
	}
	if c.Deployment.Mode == ModeRemote && strings.TrimSpace(c.Deployment.PublishCommand) == "" {
		return errors.New("deployment.publish_command must be set when deployment.mode is remote")
	}
	return nil
}

func (c *Config) validateURLs() error {
	fields := map[string]string{
		"urls.local_serving_url":     c.URLs.LocalServingURL,
		"urls.translated_local_url":  c.URLs.TranslatedLocalURL,
		"urls.remote_hosted_url":     c.URLs.RemoteHostedURL,
		"urls.translated_remote_url": c.URLs.TranslatedRemoteURL,
		"notifications.ntfy_topic":   c.Notifications.NtfyTopic,
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// RequireTranslatedURL reports a configuration error when the active mode has no
// translated mirror to read from.
func (c *Config) RequireTranslatedURL() error {
	if strings.TrimSpace(c.TranslatedURL()) != "" {
		return nil
	}
	key := "urls.translated_local_url (TRANSLATED_LOCAL_SERVER_URL)"
	if c.Deployment.Mode == ModeRemote {
		key = "urls.translated_remote_url (TRANSLATED_GITHUB_PAGES_URL)"
	}
	return fmt.Errorf("%s is required for %s deployment", key, c.Deployment.Mode)
}
