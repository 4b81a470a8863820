package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wordburn/internal/api"
)

func TestSubmitSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/jobs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header = %q", got)
		}
		var req api.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SourceURL != "https://example.com/v" {
			t.Errorf("source url = %q", req.SourceURL)
		}
		_ = json.NewEncoder(w).Encode(api.SubmitResponse{
			Item: api.ItemView{ID: 3, RunID: "run-3", Status: "pending"},
		})
	}))
	defer server.Close()

	client := New(server.URL, "secret")
	item, err := client.Submit(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.ID != 3 || item.RunID != "run-3" {
		t.Fatalf("unexpected item: %#v", item)
	}
}

func TestJobsEncodesStatusFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		statuses := r.URL.Query()["status"]
		if len(statuses) != 2 || statuses[0] != "pending" || statuses[1] != "failed" {
			t.Errorf("status filters = %v", statuses)
		}
		_ = json.NewEncoder(w).Encode(api.QueueListResponse{
			Items: []api.ItemView{{ID: 1}, {ID: 2}},
		})
	}))
	defer server.Close()

	items, err := New(server.URL, "").Jobs(context.Background(), "pending", "failed")
	if err != nil {
		t.Fatalf("Jobs failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestDoDecodesErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "job not found"})
	}))
	defer server.Close()

	_, err := New(server.URL, "").Job(context.Background(), "99")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "job not found") {
		t.Fatalf("error %q should surface the daemon message", err.Error())
	}
}

func TestNewNormalizesAddress(t *testing.T) {
	client := New("127.0.0.1:7519/", "")
	if client.baseURL != "http://127.0.0.1:7519" {
		t.Fatalf("baseURL = %q", client.baseURL)
	}

	if err := New("", "").do(context.Background(), http.MethodGet, "/api/status", nil, nil); err == nil {
		t.Fatal("expected error when address missing")
	}
}

func TestRetryHitsJobSubresource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs/run-7/retry" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.ActionResponse{Affected: 1})
	}))
	defer server.Close()

	affected, err := New(server.URL, "").Retry(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d", affected)
	}
}
