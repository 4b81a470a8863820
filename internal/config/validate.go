package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateScenes(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	return c.validateWorkflow()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.WorkDir == c.Paths.MediaDir {
		return errors.New("paths.work_dir and paths.media_dir must differ")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Format == "" {
		return errors.New("download.format must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.Model == "" {
		return errors.New("transcription.model must be set")
	}
	return nil
}

func (c *Config) validateScenes() error {
	if c.Scenes.Threshold <= 0 || c.Scenes.Threshold >= 1 {
		return errors.New("scenes.threshold must be between 0 and 1 exclusive")
	}
	if c.Scenes.MinDuration < 0 {
		return errors.New("scenes.min_duration must not be negative")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.FontSize <= 0 {
		return errors.New("captions.font_size must be positive")
	}
	if c.Captions.FrameRate <= 0 {
		return errors.New("captions.frame_rate must be positive")
	}
	if c.Captions.Codec == "" {
		return errors.New("captions.codec must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"download.timeout_seconds":      c.Download.TimeoutSeconds,
		"transcription.timeout_seconds": c.Transcription.TimeoutSeconds,
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
		"workflow.heartbeat_interval":   c.Workflow.HeartbeatInterval,
		"workflow.heartbeat_timeout":    c.Workflow.HeartbeatTimeout,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
