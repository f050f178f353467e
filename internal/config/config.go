package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Deployment modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Paths contains working directories.
type Paths struct {
	DistDir  string `toml:"dist_dir"`
	SiteDir  string `toml:"site_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// URLs holds the serving and translated-mirror endpoints. Every field is
// optional and defaults to empty.
type URLs struct {
	LocalServingURL     string `toml:"local_serving_url"`
	TranslatedLocalURL  string `toml:"translated_local_url"`
	RemoteHostedURL     string `toml:"remote_hosted_url"`
	TranslatedRemoteURL string `toml:"translated_remote_url"`
}

// Deployment selects and tunes the publish strategy.
type Deployment struct {
	Mode           string `toml:"mode"`
	LocalPort      int    `toml:"local_port"`
	PublishCommand string `toml:"publish_command"`
	ErrorMarker    string `toml:"error_marker"`
	RemoteVerify   bool   `toml:"remote_verify"`
}

// Browser contains headless browser settings.
type Browser struct {
	ExecPath                 string `toml:"exec_path"`
	Headless                 bool   `toml:"headless"`
	PollIntervalSeconds      int    `toml:"poll_interval_seconds"`
	VerifyTimeoutSeconds     int    `toml:"verify_timeout_seconds"`
	NavigationTimeoutSeconds int    `toml:"navigation_timeout_seconds"`
	ScrollPauseMillis        int    `toml:"scroll_pause_ms"`
}

// Extraction contains translated text post-processing settings.
type Extraction struct {
	WrapThreshold int `toml:"wrap_threshold"`
}

// Transcoder names the media tool binaries.
type Transcoder struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Notifications configures ntfy push notifications for finished runs.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Config encapsulates all configuration values for srt-translate.
//
// Configuration sections by subsystem:
//   - Paths: dist (served markup + diagnostics), site source, state, logs
//   - URLs: serving and translated-mirror endpoints
//   - Deployment: local vs remote publish strategy
//   - Browser: headless Chrome and polling behaviour
//   - Extraction: re-wrap threshold for translated lines
//   - Transcoder: ffmpeg/ffprobe binaries
//   - Logging: log format, level, and rotation
//   - Notifications: ntfy topic for run results
type Config struct {
	Paths         Paths         `toml:"paths"`
	URLs          URLs          `toml:"urls"`
	Deployment    Deployment    `toml:"deployment"`
	Browser       Browser       `toml:"browser"`
	Extraction    Extraction    `toml:"extraction"`
	Transcoder    Transcoder    `toml:"transcoder"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigRelativePath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working directories used by a run.
// SiteDir is only created for the remote strategy.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DistDir, c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Deployment.Mode == ModeRemote && strings.TrimSpace(c.Paths.SiteDir) != "" {
		if err := os.MkdirAll(c.Paths.SiteDir, 0o755); err != nil {
			return fmt.Errorf("create site directory %q: %w", c.Paths.SiteDir, err)
		}
	}
	return nil
}

// ServingURL returns the URL of the page that was just published for the
// active deployment mode.
func (c *Config) ServingURL() string {
	if c.Deployment.Mode == ModeRemote {
		return c.URLs.RemoteHostedURL
	}
	if c.URLs.LocalServingURL != "" {
		return c.URLs.LocalServingURL
	}
	return fmt.Sprintf("http://localhost:%d/", c.Deployment.LocalPort)
}

// TranslatedURL returns the translated mirror URL for the active deployment mode.
func (c *Config) TranslatedURL() string {
	if c.Deployment.Mode == ModeRemote {
		return c.URLs.TranslatedRemoteURL
	}
	return c.URLs.TranslatedLocalURL
}

// NotificationTimeout bounds a single ntfy request.
func (c *Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the delay between verification attempts.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Browser.PollIntervalSeconds) * time.Second
}

// VerifyTimeout returns the maximum time spent waiting for a published page to go live.
func (c *Config) VerifyTimeout() time.Duration {
	return time.Duration(c.Browser.VerifyTimeoutSeconds) * time.Second
}

// NavigationTimeout bounds a single navigation or selector wait.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Browser.NavigationTimeoutSeconds) * time.Second
}

// ScrollPause returns the pause after each viewport scroll step.
func (c *Config) ScrollPause() time.Duration {
	return time.Duration(c.Browser.ScrollPauseMillis) * time.Millisecond
}

// HistoryPath returns the run ledger database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the rotated log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "srt-translate.log")
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
