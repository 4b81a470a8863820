package daemon

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wordburn/internal/logging"
	"wordburn/internal/testsupport"
	"wordburn/internal/workflow"
)

func newTestServer(t *testing.T) *apiServer {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, logging.NewNop())

	d, err := New(cfg, store, logging.NewNop(), manager)
	if err != nil {
		t.Fatalf("New daemon failed: %v", err)
	}
	server, err := newAPIServer(cfg, d, logging.NewNop())
	if err != nil {
		t.Fatalf("newAPIServer failed: %v", err)
	}
	return server
}

func TestSubmitFormUsesURLField(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{"url": {"https://example.com/watch?v=abc"}}
	req := httptest.NewRequest("POST", "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()

	server.handleSubmitForm(recorder, req)

	location := recorder.Header().Get("Location")
	if recorder.Code != 303 || !strings.HasPrefix(location, "/jobs/") {
		t.Fatalf("status %d location %q", recorder.Code, location)
	}

	runID := strings.TrimPrefix(location, "/jobs/")
	item, err := server.daemon.GetItemByRunID(context.Background(), runID)
	if err != nil {
		t.Fatalf("GetItemByRunID failed: %v", err)
	}
	if item == nil || item.SourceURL != "https://example.com/watch?v=abc" {
		t.Fatalf("submitted item not found: %#v", item)
	}
}

func TestSubmitFormRejectsMissingURL(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("POST", "/submit", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()

	server.handleSubmitForm(recorder, req)

	location := recorder.Header().Get("Location")
	if recorder.Code != 303 || !strings.HasPrefix(location, "/?error=") {
		t.Fatalf("status %d location %q", recorder.Code, location)
	}
}
