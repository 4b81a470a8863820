package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending      Status = "pending"
	StatusFetching     Status = "fetching"
	StatusFetched      Status = "fetched"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusAnalyzing    Status = "analyzing"
	StatusAnalyzed     Status = "analyzed"
	StatusSubtitling   Status = "subtitling"
	StatusSubtitled    Status = "subtitled"
	StatusRendering    Status = "rendering"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusTranscribing,
	StatusTranscribed,
	StatusAnalyzing,
	StatusAnalyzed,
	StatusSubtitling,
	StatusSubtitled,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusFetching:     {},
	StatusTranscribing: {},
	StatusAnalyzing:    {},
	StatusSubtitling:   {},
	StatusRendering:    {},
}

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions map each processing status back to the status a
// reclaimed item should resume from.
var stageRollbackTransitions = []statusTransition{
	{from: StatusFetching, to: StatusPending},
	{from: StatusTranscribing, to: StatusFetched},
	{from: StatusAnalyzing, to: StatusTranscribed},
	{from: StatusSubtitling, to: StatusAnalyzed},
	{from: StatusRendering, to: StatusSubtitled},
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents a queue item persisted in SQLite. Each item is one
// pipeline run: a source URL moving through fetch, transcribe, scene scan,
// subtitle, and render.
type Item struct {
	ID              int64
	RunID           string
	SourceURL       string
	Title           string
	Status          Status
	VideoFile       string
	TranscriptText  string
	SegmentsJSON    string
	ScenesJSON      string
	SubtitleFile    string
	FinalFile       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	LastHeartbeat   *time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether a status ends the run.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}

// ProcessingStatuses returns the set of in-flight statuses.
func ProcessingStatuses() []Status {
	statuses := make([]Status, 0, len(stageRollbackTransitions))
	for _, transition := range stageRollbackTransitions {
		statuses = append(statuses, transition.from)
	}
	return statuses
}

// SetProgress updates all three progress fields together.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.ProgressStage = "Failed"
	i.LastHeartbeat = nil
}
