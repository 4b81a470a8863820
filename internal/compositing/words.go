package compositing

import (
	"strings"

	"wordburn/internal/subtitles"
)

// WordWindow is a single caption word with the time window it is visible.
type WordWindow struct {
	Text  string
	Start float64
	End   float64
}

// SplitCues expands subtitle cues into per-word display windows. Each cue's
// span is divided into equal sub-intervals, one per word, so word i of n
// appears at start + i*d/n and disappears at start + (i+1)*d/n. Cues with no
// words are skipped.
func SplitCues(cues []subtitles.Cue) []WordWindow {
	var windows []WordWindow
	for _, cue := range cues {
		words := strings.Fields(cue.Text)
		if len(words) == 0 {
			continue
		}
		span := cue.End - cue.Start
		step := span / float64(len(words))
		for i, word := range words {
			windows = append(windows, WordWindow{
				Text:  word,
				Start: cue.Start + float64(i)*step,
				End:   cue.Start + float64(i+1)*step,
			})
		}
	}
	return windows
}
