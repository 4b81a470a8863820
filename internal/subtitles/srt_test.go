package subtitles_test

import (
	"path/filepath"
	"testing"

	"wordburn/internal/services/whisper"
	"wordburn/internal/subtitles"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.007, "01:01:01,007"},
		{-2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := subtitles.FormatTimestamp(tc.seconds); got != tc.expected {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.expected)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := subtitles.ParseTimestamp("01:02:03,450")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	want := 3723.45
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("ParseTimestamp = %v, want %v", got, want)
	}

	if _, err := subtitles.ParseTimestamp("01:02:03.450"); err == nil {
		t.Fatal("expected error for dot separator")
	}
	if _, err := subtitles.ParseTimestamp("02:03,450"); err == nil {
		t.Fatal("expected error for missing hours field")
	}
}

func TestFromSegmentsNumbersFromZero(t *testing.T) {
	cues := subtitles.FromSegments([]whisper.Segment{
		{Start: 0, End: 2, Text: " hello world "},
		{Start: 2, End: 4, Text: ""},
		{Start: 4, End: 6, Text: "again"},
	})
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Index != 0 || cues[1].Index != 1 {
		t.Fatalf("expected sequential zero-based indices, got %d and %d", cues[0].Index, cues[1].Index)
	}
	if cues[0].Text != "hello world" {
		t.Fatalf("expected trimmed text, got %q", cues[0].Text)
	}
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	cues := []subtitles.Cue{
		{Index: 0, Start: 0, End: 2.5, Text: "first cue"},
		{Index: 1, Start: 2.5, End: 5, Text: "second cue\nwith two lines"},
		{Index: 2, Start: 5, End: 7.125, Text: "third"},
	}

	path := filepath.Join(t.TempDir(), "out.srt")
	if err := subtitles.WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	parsed, err := subtitles.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(parsed) != len(cues) {
		t.Fatalf("expected %d cues, got %d", len(cues), len(parsed))
	}
	for i, cue := range cues {
		got := parsed[i]
		if got.Index != cue.Index || got.Text != cue.Text {
			t.Errorf("cue %d mismatch: %#v vs %#v", i, got, cue)
		}
		if diff := got.Start - cue.Start; diff > 0.001 || diff < -0.001 {
			t.Errorf("cue %d start drifted: %v vs %v", i, got.Start, cue.Start)
		}
		if diff := got.End - cue.End; diff > 0.001 || diff < -0.001 {
			t.Errorf("cue %d end drifted: %v vs %v", i, got.End, cue.End)
		}
	}
}

func TestParseRejectsMalformedBlocks(t *testing.T) {
	if _, err := subtitles.Parse("0\nnot a time range\ntext\n"); err == nil {
		t.Fatal("expected error for malformed time range")
	}
	if _, err := subtitles.Parse("zero\n00:00:00,000 --> 00:00:01,000\ntext\n"); err == nil {
		t.Fatal("expected error for non-numeric index")
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	document := "0\r\n00:00:00,000 --> 00:00:01,000\r\nwindows line endings\r\n\r\n"
	cues, err := subtitles.Parse(document)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "windows line endings" {
		t.Fatalf("unexpected cues: %#v", cues)
	}
}
