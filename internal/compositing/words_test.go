package compositing

import (
	"strings"
	"testing"

	"wordburn/internal/subtitles"
)

func TestSplitCuesEqualSubIntervals(t *testing.T) {
	windows := SplitCues([]subtitles.Cue{
		{Index: 0, Start: 10, End: 13, Text: "a b c"},
	})
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	expected := []WordWindow{
		{Text: "a", Start: 10, End: 11},
		{Text: "b", Start: 11, End: 12},
		{Text: "c", Start: 12, End: 13},
	}
	for i, want := range expected {
		got := windows[i]
		if got.Text != want.Text {
			t.Errorf("window %d text = %q, want %q", i, got.Text, want.Text)
		}
		if !closeEnough(got.Start, want.Start) || !closeEnough(got.End, want.End) {
			t.Errorf("window %d span = [%v, %v], want [%v, %v]", i, got.Start, got.End, want.Start, want.End)
		}
	}
}

func TestSplitCuesSkipsEmptyCues(t *testing.T) {
	windows := SplitCues([]subtitles.Cue{
		{Index: 0, Start: 0, End: 2, Text: "   "},
		{Index: 1, Start: 2, End: 4, Text: "kept"},
	})
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].Text != "kept" {
		t.Fatalf("unexpected window: %#v", windows[0])
	}
}

func TestSplitCuesCoversCueSpan(t *testing.T) {
	cue := subtitles.Cue{Index: 0, Start: 1.5, End: 4.75, Text: "one two three four five"}
	windows := SplitCues([]subtitles.Cue{cue})
	if len(windows) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(windows))
	}
	if !closeEnough(windows[0].Start, cue.Start) {
		t.Errorf("first window starts at %v, want %v", windows[0].Start, cue.Start)
	}
	if !closeEnough(windows[len(windows)-1].End, cue.End) {
		t.Errorf("last window ends at %v, want %v", windows[len(windows)-1].End, cue.End)
	}
	for i := 1; i < len(windows); i++ {
		if !closeEnough(windows[i-1].End, windows[i].Start) {
			t.Errorf("gap between window %d and %d: %v vs %v", i-1, i, windows[i-1].End, windows[i].Start)
		}
	}
}

func TestBuildFilterChainsDrawtext(t *testing.T) {
	filter := BuildFilter([]WordWindow{
		{Text: "hello", Start: 0, End: 1},
		{Text: "world", Start: 1, End: 2},
	}, FilterOptions{
		FontPath:  "/usr/share/fonts/test.ttf",
		FontSize:  24,
		FontColor: "white",
		BoxColor:  "green",
	})

	if strings.Count(filter, "drawtext=") != 2 {
		t.Fatalf("expected 2 drawtext filters, got: %s", filter)
	}
	if !strings.Contains(filter, "enable='between(t,0.000,1.000)'") {
		t.Errorf("missing first enable window: %s", filter)
	}
	if !strings.Contains(filter, "enable='between(t,1.000,2.000)'") {
		t.Errorf("missing second enable window: %s", filter)
	}
	if !strings.Contains(filter, "fontfile='/usr/share/fonts/test.ttf'") {
		t.Errorf("missing fontfile: %s", filter)
	}
	if !strings.Contains(filter, "boxcolor=green") || !strings.Contains(filter, "fontcolor=white") {
		t.Errorf("missing colors: %s", filter)
	}
	if !strings.Contains(filter, "x=(w-text_w)/2") {
		t.Errorf("missing centering expression: %s", filter)
	}
}

func TestBuildFilterOmitsFontfileWhenUnset(t *testing.T) {
	filter := BuildFilter([]WordWindow{{Text: "x", Start: 0, End: 1}}, FilterOptions{
		FontSize:  24,
		FontColor: "white",
		BoxColor:  "green",
	})
	if strings.Contains(filter, "fontfile") {
		t.Fatalf("fontfile should be omitted: %s", filter)
	}
}

func TestEscapeText(t *testing.T) {
	cases := []struct {
		in       string
		contains string
	}{
		{"plain", "'plain'"},
		{"don't", `'don'\''t'`},
		{"100%", `'100\%'`},
		{`back\slash`, `'back\\slash'`},
	}
	for _, tc := range cases {
		if got := escapeText(tc.in); got != tc.contains {
			t.Errorf("escapeText(%q) = %q, want %q", tc.in, got, tc.contains)
		}
	}
}

func closeEnough(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
