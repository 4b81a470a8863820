package api

import (
	"time"

	"wordburn/internal/queue"
	"wordburn/internal/scenes"
	"wordburn/internal/stage"
	"wordburn/internal/workflow"
)

// ItemView is the wire representation of a queue item.
type ItemView struct {
	ID              int64       `json:"id"`
	RunID           string      `json:"run_id"`
	SourceURL       string      `json:"source_url"`
	Title           string      `json:"title,omitempty"`
	Status          string      `json:"status"`
	StageLabel      string      `json:"stage_label"`
	VideoFile       string      `json:"video_file,omitempty"`
	SubtitleFile    string      `json:"subtitle_file,omitempty"`
	FinalFile       string      `json:"final_file,omitempty"`
	SubtitleURL     string      `json:"subtitle_url,omitempty"`
	FinalURL        string      `json:"final_url,omitempty"`
	Scenes          []SceneView `json:"scenes,omitempty"`
	ErrorMessage    string      `json:"error_message,omitempty"`
	ProgressStage   string      `json:"progress_stage,omitempty"`
	ProgressPercent float64     `json:"progress_percent"`
	ProgressMessage string      `json:"progress_message,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	LastHeartbeat   *time.Time  `json:"last_heartbeat,omitempty"`
}

// SceneView is the wire representation of one detected scene range.
type SceneView struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SubmitRequest is the payload for enqueueing a new source URL.
type SubmitRequest struct {
	SourceURL string `json:"source_url"`
}

// SubmitResponse confirms a newly enqueued run.
type SubmitResponse struct {
	Item ItemView `json:"item"`
}

// QueueListResponse wraps a queue listing.
type QueueListResponse struct {
	Items []ItemView `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item ItemView `json:"item"`
}

// ActionResponse reports how many rows a maintenance action touched.
type ActionResponse struct {
	Affected int64 `json:"affected"`
}

// StageHealthView is the wire representation of a stage health probe.
type StageHealthView struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DependencyStatus is the wire representation of a binary dependency probe.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// WorkflowStatus is the wire representation of workflow diagnostics.
type WorkflowStatus struct {
	Running     bool                       `json:"running"`
	LastError   string                     `json:"last_error,omitempty"`
	LastItem    *ItemView                  `json:"last_item,omitempty"`
	QueueStats  map[string]int             `json:"queue_stats"`
	StageHealth map[string]StageHealthView `json:"stage_health"`
}

// DaemonStatus is the wire representation of daemon diagnostics.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	QueueDBPath  string             `json:"queue_db_path"`
	LockFilePath string             `json:"lock_file_path"`
	Workflow     WorkflowStatus     `json:"workflow"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// FromStatusSummary converts workflow diagnostics into wire form.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	stats := make(map[string]int, len(summary.QueueStats))
	for status, count := range summary.QueueStats {
		stats[string(status)] = count
	}
	health := make(map[string]StageHealthView, len(summary.StageHealth))
	for name, h := range summary.StageHealth {
		health[name] = fromStageHealth(h)
	}
	out := WorkflowStatus{
		Running:     summary.Running,
		LastError:   summary.LastError,
		QueueStats:  stats,
		StageHealth: health,
	}
	if summary.LastItem != nil {
		view := FromItem(summary.LastItem, nil)
		out.LastItem = &view
	}
	return out
}

func fromStageHealth(h stage.Health) StageHealthView {
	return StageHealthView{Name: h.Name, Ready: h.Ready, Detail: h.Detail}
}

// URLResolver maps published file paths onto externally reachable URLs.
type URLResolver func(path string) string

// FromItem converts a queue item into wire form. resolve may be nil when no
// media URLs should be exposed.
func FromItem(item *queue.Item, resolve URLResolver) ItemView {
	view := ItemView{
		ID:              item.ID,
		RunID:           item.RunID,
		SourceURL:       item.SourceURL,
		Title:           item.Title,
		Status:          string(item.Status),
		StageLabel:      workflow.StageLabel(item.Status),
		VideoFile:       item.VideoFile,
		SubtitleFile:    item.SubtitleFile,
		FinalFile:       item.FinalFile,
		ErrorMessage:    item.ErrorMessage,
		ProgressStage:   item.ProgressStage,
		ProgressPercent: item.ProgressPercent,
		ProgressMessage: item.ProgressMessage,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		LastHeartbeat:   item.LastHeartbeat,
	}
	if ranges, err := scenes.DecodeRanges(item); err == nil {
		for _, r := range ranges {
			view.Scenes = append(view.Scenes, SceneView{Start: r.Start, End: r.End})
		}
	}
	if resolve != nil {
		if item.SubtitleFile != "" {
			view.SubtitleURL = resolve(item.SubtitleFile)
		}
		if item.FinalFile != "" {
			view.FinalURL = resolve(item.FinalFile)
		}
	}
	return view
}

// FromItems converts a slice of queue items into wire form.
func FromItems(items []*queue.Item, resolve URLResolver) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, FromItem(item, resolve))
	}
	return views
}
