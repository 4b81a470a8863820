package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wordburn/internal/queue"
	"wordburn/internal/testsupport"
)

func TestNewLinkAssignsRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewLink(ctx, "https://example.com/video")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.RunID == "" {
		t.Fatal("expected run ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}

	fetched, err := store.GetByRunID(ctx, item.RunID)
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if fetched == nil || fetched.ID != item.ID {
		t.Fatalf("expected to find inserted item, got %#v", fetched)
	}
}

func TestNewLinkRunIDsAreUnique(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		item, err := store.NewLink(ctx, fmt.Sprintf("https://example.com/video-%d", i))
		if err != nil {
			t.Fatalf("NewLink %d failed: %v", i, err)
		}
		if _, dup := seen[item.RunID]; dup {
			t.Fatalf("duplicate run ID %s", item.RunID)
		}
		seen[item.RunID] = struct{}{}
	}
}

func TestNewLinkRejectsRelativeURLs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, bad := range []string{"", "   ", "not a url", "/relative/path"} {
		if _, err := store.NewLink(ctx, bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestUpdatePersistsPipelineArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewLink(ctx, "https://example.com/video")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}

	item.Status = queue.StatusTranscribed
	item.Title = "Sample"
	item.VideoFile = "/work/run/video.mp4"
	item.TranscriptText = "hello world"
	item.SegmentsJSON = `[{"start":0,"end":1,"text":"hello world"}]`
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusTranscribed {
		t.Errorf("status = %s", fetched.Status)
	}
	if fetched.Title != "Sample" || fetched.VideoFile != "/work/run/video.mp4" {
		t.Errorf("unexpected fields: %#v", fetched)
	}
	if fetched.SegmentsJSON == "" {
		t.Error("segments JSON not persisted")
	}
}

func TestNextForStatusesReturnsOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.NewLink(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}
	if _, err := store.NewLink(ctx, "https://example.com/b"); err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest item %d, got %#v", first.ID, next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusRendering)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no rendering items, got %#v", none)
	}
}

func TestReclaimStaleProcessingRollsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		initial  queue.Status
		expected queue.Status
	}{
		{queue.StatusFetching, queue.StatusPending},
		{queue.StatusTranscribing, queue.StatusFetched},
		{queue.StatusAnalyzing, queue.StatusTranscribed},
		{queue.StatusSubtitling, queue.StatusAnalyzed},
		{queue.StatusRendering, queue.StatusSubtitled},
	}

	var ids []int64
	stale := time.Now().Add(-time.Hour)
	for i, tc := range cases {
		item, err := store.NewLink(ctx, fmt.Sprintf("https://example.com/reclaim-%d", i))
		if err != nil {
			t.Fatalf("NewLink failed: %v", err)
		}
		item.Status = tc.initial
		item.LastHeartbeat = &stale
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	reclaimed, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-time.Minute), queue.ProcessingStatuses()...)
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if reclaimed != int64(len(cases)) {
		t.Fatalf("expected %d reclaimed, got %d", len(cases), reclaimed)
	}

	for i, tc := range cases {
		item, err := store.GetByID(ctx, ids[i])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if item.Status != tc.expected {
			t.Errorf("item %d rolled to %s, want %s", ids[i], item.Status, tc.expected)
		}
		if item.LastHeartbeat != nil {
			t.Errorf("item %d heartbeat should be cleared", ids[i])
		}
	}
}

func TestReclaimSkipsFreshHeartbeats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewLink(ctx, "https://example.com/fresh")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}
	item.Status = queue.StatusRendering
	now := time.Now()
	item.LastHeartbeat = &now
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reclaimed, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-time.Minute), queue.ProcessingStatuses()...)
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if reclaimed != 0 {
		t.Fatalf("expected no reclaims, got %d", reclaimed)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusRendering {
		t.Fatalf("status changed unexpectedly: %s", fetched.Status)
	}
}

func TestRetryFailedResetsToPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	failed, err := store.NewLink(ctx, "https://example.com/failed")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}
	failed.SetFailed("download blew up")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	completed, err := store.NewLink(ctx, "https://example.com/completed")
	if err != nil {
		t.Fatalf("NewLink failed: %v", err)
	}
	completed.Status = queue.StatusCompleted
	if err := store.Update(ctx, completed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	affected, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 retried item, got %d", affected)
	}

	refetched, err := store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if refetched.Status != queue.StatusPending {
		t.Errorf("status = %s, want pending", refetched.Status)
	}
	if refetched.ErrorMessage != "" {
		t.Errorf("error message not cleared: %q", refetched.ErrorMessage)
	}

	untouchable, err := store.GetByID(ctx, completed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouchable.Status != queue.StatusCompleted {
		t.Errorf("completed item changed: %s", untouchable.Status)
	}
}

func TestClearVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	seed := func(status queue.Status) {
		t.Helper()
		item, err := store.NewLink(ctx, fmt.Sprintf("https://example.com/%s-%d", status, time.Now().UnixNano()))
		if err != nil {
			t.Fatalf("NewLink failed: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	seed(queue.StatusCompleted)
	seed(queue.StatusFailed)
	seed(queue.StatusPending)

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 completed removed, got %d", removed)
	}

	removed, err = store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 failed removed, got %d", removed)
	}

	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 remaining removed, got %d", removed)
	}
}

func TestHealthAggregates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	statuses := []queue.Status{
		queue.StatusPending,
		queue.StatusFetching,
		queue.StatusRendering,
		queue.StatusCompleted,
		queue.StatusFailed,
	}
	for i, status := range statuses {
		item, err := store.NewLink(ctx, fmt.Sprintf("https://example.com/health-%d", i))
		if err != nil {
			t.Fatalf("NewLink failed: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	summary, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if summary.Total != 5 || summary.Pending != 1 || summary.Processing != 2 || summary.Completed != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}
