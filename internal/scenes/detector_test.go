package scenes

import (
	"context"
	"testing"
)

func TestParseBoundaries(t *testing.T) {
	output := `
[Parsed_metadata_1 @ 0x5611] frame:0    pts:25600  pts_time:1
[Parsed_metadata_1 @ 0x5611] lavfi.scene_score=0.523411
[Parsed_metadata_1 @ 0x5611] frame:1    pts:76800  pts_time:3.0
[Parsed_metadata_1 @ 0x5611] lavfi.scene_score=0.712044
[Parsed_metadata_1 @ 0x5611] frame:2    pts:140800 pts_time:5.5
frame=  150 fps=0.0 q=-0.0 Lsize=N/A time=00:00:06.00
`
	boundaries := ParseBoundaries(output)
	expected := []float64{1, 3, 5.5}
	if len(boundaries) != len(expected) {
		t.Fatalf("expected %d boundaries, got %v", len(expected), boundaries)
	}
	for i, want := range expected {
		if boundaries[i] != want {
			t.Errorf("boundary %d = %v, want %v", i, boundaries[i], want)
		}
	}
}

func TestParseBoundariesIgnoresGarbage(t *testing.T) {
	boundaries := ParseBoundaries("pts_time:not-a-number\npts_time:-4\nno match here\n")
	if len(boundaries) != 0 {
		t.Fatalf("expected no boundaries, got %v", boundaries)
	}
}

func TestBuildRangesMinDurationInclusive(t *testing.T) {
	// Boundaries at 1.0, 3.0, 5.5 over a 6-second video produce scene
	// durations 1.0, 2.0, 2.5, 0.5. With a 2.0 minimum, the boundary case
	// survives.
	ranges := BuildRanges([]float64{1, 3, 5.5}, 6, 2)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %v", ranges)
	}
	if ranges[0].Start != 1 || ranges[0].End != 3 {
		t.Errorf("unexpected first range: %#v", ranges[0])
	}
	if ranges[1].Start != 3 || ranges[1].End != 5.5 {
		t.Errorf("unexpected second range: %#v", ranges[1])
	}
}

func TestBuildRangesNoBoundaries(t *testing.T) {
	ranges := BuildRanges(nil, 10, 2)
	if len(ranges) != 1 {
		t.Fatalf("expected whole video as one scene, got %v", ranges)
	}
	if ranges[0].Start != 0 || ranges[0].End != 10 {
		t.Fatalf("unexpected range: %#v", ranges[0])
	}
}

func TestBuildRangesDropsOutOfBoundsBoundaries(t *testing.T) {
	ranges := BuildRanges([]float64{0, 5, 12}, 10, 0)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %v", ranges)
	}
	if ranges[0].End != 5 || ranges[1].End != 10 {
		t.Fatalf("unexpected ranges: %#v", ranges)
	}
}

func TestDetectorUsesConfiguredThreshold(t *testing.T) {
	detector := NewDetector(DetectorConfig{Threshold: 0.3, MinDuration: 1})

	var capturedArgs []string
	detector.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		capturedArgs = append([]string{name}, args...)
		return []byte("pts_time:2.0\n"), nil
	})

	ranges, err := detector.Detect(context.Background(), "/tmp/video.mp4", 4)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %v", ranges)
	}

	found := false
	for _, arg := range capturedArgs {
		if arg == "select='gt(scene,0.3)',metadata=print" {
			found = true
		}
	}
	if !found {
		t.Fatalf("threshold missing from args: %v", capturedArgs)
	}
}

func TestDetectRequiresPositiveDuration(t *testing.T) {
	detector := NewDetector(DetectorConfig{})
	if _, err := detector.Detect(context.Background(), "/tmp/video.mp4", 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}
