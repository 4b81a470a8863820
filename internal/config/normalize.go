package config

import "strings"

// normalize expands path fields and trims whitespace from string values that
// participate in command construction or URL building.
func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Captions.FontPath) != "" {
		if c.Captions.FontPath, err = expandPath(c.Captions.FontPath); err != nil {
			return err
		}
	}

	c.Paths.MediaURLPrefix = strings.TrimRight(strings.TrimSpace(c.Paths.MediaURLPrefix), "/")
	if c.Paths.MediaURLPrefix == "" {
		c.Paths.MediaURLPrefix = defaultMediaURLPrefix
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	c.Captions.FontColor = strings.TrimSpace(c.Captions.FontColor)
	c.Captions.BoxColor = strings.TrimSpace(c.Captions.BoxColor)
	c.Captions.Codec = strings.TrimSpace(c.Captions.Codec)
	return nil
}
