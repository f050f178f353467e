package config

const (
	defaultDistDir            = "~/.local/share/srt-translate/dist"
	defaultSiteDir            = "~/.local/share/srt-translate/site"
	defaultStateDir           = "~/.local/share/srt-translate"
	defaultLogDir             = "~/.local/share/srt-translate/logs"
	defaultDeploymentMode     = ModeLocal
	defaultLocalPort          = 3333
	defaultPublishCommand     = "npm run deploy"
	defaultErrorMarker        = "ERROR"
	defaultPollInterval       = 5
	defaultVerifyTimeout      = 900
	defaultNavigationTimeout  = 60
	defaultScrollPauseMillis  = 50
	defaultWrapThreshold      = 30
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 10
	defaultLogMaxBackups      = 5
	defaultLogMaxAgeDays      = 30
	defaultNtfyTimeout        = 10
	defaultConfigRelativePath = "~/.config/srt-translate/config.toml"
	projectConfigName         = "srt-translate.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DistDir:  defaultDistDir,
			SiteDir:  defaultSiteDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Deployment: Deployment{
			Mode:           defaultDeploymentMode,
			LocalPort:      defaultLocalPort,
			PublishCommand: defaultPublishCommand,
			ErrorMarker:    defaultErrorMarker,
		},
		Browser: Browser{
			Headless:                 true,
			PollIntervalSeconds:      defaultPollInterval,
			VerifyTimeoutSeconds:     defaultVerifyTimeout,
			NavigationTimeoutSeconds: defaultNavigationTimeout,
			ScrollPauseMillis:        defaultScrollPauseMillis,
		},
		Extraction: Extraction{
			WrapThreshold: defaultWrapThreshold,
		},
		Transcoder: Transcoder{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
	}
}
