package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the pipeline failure taxonomy. Every stage wraps its
// delegated-service failures with exactly one of these so callers can
// classify errors with errors.Is without parsing messages.
var (
	ErrDownload       = errors.New("download error")
	ErrTranscription  = errors.New("transcription error")
	ErrSceneDetection = errors.New("scene detection error")
	ErrSubtitleIO     = errors.New("subtitle io error")
	ErrRender         = errors.New("render error")
	ErrConfiguration  = errors.New("configuration error")
	ErrExternalTool   = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Kind maps a wrapped stage error to its taxonomy name for logs and API
// payloads. Unclassified errors report as "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrSceneDetection):
		return "scene_detection"
	case errors.Is(err, ErrSubtitleIO):
		return "subtitle_io"
	case errors.Is(err, ErrRender):
		return "render"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "internal"
	}
}
