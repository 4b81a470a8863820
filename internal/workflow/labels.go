package workflow

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wordburn/internal/queue"
)

var stageLabels = map[queue.Status]string{
	queue.StatusPending:      "Pending",
	queue.StatusFetching:     "Fetching",
	queue.StatusFetched:      "Fetched",
	queue.StatusTranscribing: "Transcribing",
	queue.StatusTranscribed:  "Transcribed",
	queue.StatusAnalyzing:    "Analyzing",
	queue.StatusAnalyzed:     "Analyzed",
	queue.StatusSubtitling:   "Subtitling",
	queue.StatusSubtitled:    "Subtitled",
	queue.StatusRendering:    "Rendering",
	queue.StatusCompleted:    "Completed",
	queue.StatusFailed:       "Failed",
}

var titleCaser = cases.Title(language.English)

// deriveStageLabel maps a status onto its human-facing progress label.
// Unknown statuses are title-cased as a fallback.
func deriveStageLabel(status queue.Status) string {
	if label, ok := stageLabels[status]; ok {
		return label
	}
	return titleCaser.String(strings.ReplaceAll(string(status), "_", " "))
}

// StageLabel exposes label derivation for the API and CLI surfaces.
func StageLabel(status queue.Status) string {
	return deriveStageLabel(status)
}
