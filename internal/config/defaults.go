package config

const (
	defaultDownloadDir        = "~/.local/share/clipsense/downloads"
	defaultLogDir             = "~/.local/share/clipsense/logs"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultYtDlpBinary        = "yt-dlp"
	defaultResolveTimeout     = 120
	defaultDownloadTimeout    = 1800
	defaultQueuePollInterval  = 10
	defaultErrorRetryInterval = 10
	defaultStaleJobTimeout    = 3600
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultCaptionLanguages() []string {
	return []string{"en", "a.en"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Source: Source{
			YtDlpBinary:      defaultYtDlpBinary,
			ResolveTimeout:   defaultResolveTimeout,
			DownloadTimeout:  defaultDownloadTimeout,
			CaptionLanguages: defaultCaptionLanguages(),
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			StaleJobTimeout:    defaultStaleJobTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
