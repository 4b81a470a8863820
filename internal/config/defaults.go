package config

const (
	defaultWorkDir            = "~/.local/share/wordburn/work"
	defaultMediaDir           = "~/.local/share/wordburn/media"
	defaultLogDir             = "~/.local/share/wordburn/logs"
	defaultMediaURLPrefix     = "/media"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultDownloadFormat     = "best"
	defaultDownloadTimeout    = 1800
	defaultWhisperModel       = "small"
	defaultTranscribeTimeout  = 3600
	defaultSceneThreshold     = 0.4
	defaultSceneMinDuration   = 2.0
	defaultCaptionFontSize    = 24
	defaultCaptionFontColor   = "white"
	defaultCaptionBoxColor    = "green"
	defaultCaptionFrameRate   = 30
	defaultCaptionCodec       = "libx264"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:        defaultWorkDir,
			MediaDir:       defaultMediaDir,
			LogDir:         defaultLogDir,
			MediaURLPrefix: defaultMediaURLPrefix,
			APIBind:        defaultAPIBind,
		},
		Download: Download{
			Format:         defaultDownloadFormat,
			TimeoutSeconds: defaultDownloadTimeout,
		},
		Transcription: Transcription{
			Model:          defaultWhisperModel,
			TimeoutSeconds: defaultTranscribeTimeout,
		},
		Scenes: Scenes{
			Enabled:     true,
			Threshold:   defaultSceneThreshold,
			MinDuration: defaultSceneMinDuration,
		},
		Captions: Captions{
			FontSize:  defaultCaptionFontSize,
			FontColor: defaultCaptionFontColor,
			BoxColor:  defaultCaptionBoxColor,
			FrameRate: defaultCaptionFrameRate,
			Codec:     defaultCaptionCodec,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
