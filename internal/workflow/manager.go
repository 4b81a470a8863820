package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the manager orchestrates.
type StageSet struct {
	Fetcher     stage.Handler
	Transcriber stage.Handler
	Analyzer    stage.Handler
	Subtitler   stage.Handler
	Renderer    stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing through the registered stages. A
// single worker loop claims the oldest actionable item and advances it one
// stage at a time.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration

	heartbeat *HeartbeatMonitor

	stages             []pipelineStage
	stageByStart       map[queue.Status]pipelineStage
	statusOrder        []queue.Status
	processingStatuses []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow-manager"),
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}

// ConfigureStages registers the pipeline handlers in execution order.
func (m *Manager) ConfigureStages(set StageSet) {
	m.stages = []pipelineStage{
		{
			name:             "fetch",
			handler:          set.Fetcher,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusFetching,
			doneStatus:       queue.StatusFetched,
		},
		{
			name:             "transcribe",
			handler:          set.Transcriber,
			startStatus:      queue.StatusFetched,
			processingStatus: queue.StatusTranscribing,
			doneStatus:       queue.StatusTranscribed,
		},
		{
			name:             "analyze",
			handler:          set.Analyzer,
			startStatus:      queue.StatusTranscribed,
			processingStatus: queue.StatusAnalyzing,
			doneStatus:       queue.StatusAnalyzed,
		},
		{
			name:             "subtitle",
			handler:          set.Subtitler,
			startStatus:      queue.StatusAnalyzed,
			processingStatus: queue.StatusSubtitling,
			doneStatus:       queue.StatusSubtitled,
		},
		{
			name:             "render",
			handler:          set.Renderer,
			startStatus:      queue.StatusSubtitled,
			processingStatus: queue.StatusRendering,
			doneStatus:       queue.StatusCompleted,
		},
	}

	m.stageByStart = make(map[queue.Status]pipelineStage, len(m.stages))
	m.statusOrder = m.statusOrder[:0]
	m.processingStatuses = m.processingStatuses[:0]
	for _, stg := range m.stages {
		m.stageByStart[stg.startStatus] = stg
		m.statusOrder = append(m.statusOrder, stg.startStatus)
		m.processingStatuses = append(m.processingStatuses, stg.processingStatus)
	}
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	stg, ok := m.stageByStart[status]
	return stg, ok
}
