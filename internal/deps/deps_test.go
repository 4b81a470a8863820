package deps

import "testing"

func TestCheckBinariesReportsAvailability(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "shell", Command: "sh", Description: "POSIX shell"},
		{Name: "ghost", Command: "wordburn-no-such-binary"},
		{Name: "blank", Command: "   ", Optional: true},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	if !statuses[0].Available {
		t.Errorf("sh should be available: %s", statuses[0].Detail)
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Errorf("missing binary should be reported: %#v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Errorf("blank command should be unconfigured: %#v", statuses[2])
	}
	if !statuses[2].Optional {
		t.Error("optional flag should carry through")
	}
}
