package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wordburn/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Work directory", dir)
	if !result.Passed {
		t.Fatalf("existing directory should pass: %s", result.Detail)
	}

	result = CheckDirectoryAccess("Work directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("missing directory should fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := CheckDirectoryAccess("Work directory", file); result.Passed {
		t.Fatal("regular file should fail the directory check")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDiskSpace("Work disk space", dir, 1); !result.Passed {
		t.Fatalf("one free byte should be available: %s", result.Detail)
	}
	if result := CheckDiskSpace("Work disk space", dir, ^uint64(0)); result.Passed {
		t.Fatal("impossible space requirement should fail")
	}
}

func TestCheckFontFile(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(font, []byte("ttf"), 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}

	if result := CheckFontFile(font); !result.Passed {
		t.Fatalf("font file should pass: %s", result.Detail)
	}
	if result := CheckFontFile(filepath.Join(dir, "missing.ttf")); result.Passed {
		t.Fatal("missing font should fail")
	}
	if result := CheckFontFile(dir); result.Passed {
		t.Fatal("directory should fail the font check")
	}
}

func TestRunAllIncludesFontWhenConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFont())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	found := false
	for _, result := range results {
		if result.Name == "Caption font" {
			found = true
		}
		if !result.Passed {
			t.Errorf("check %q failed: %s", result.Name, result.Detail)
		}
	}
	if !found {
		t.Error("font check missing from results")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	statuses := CheckSystemDeps(context.Background(), cfg)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 dependency statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Errorf("dependency %s unavailable: %s", status.Name, status.Detail)
		}
	}
}
