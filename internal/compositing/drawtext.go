package compositing

import (
	"fmt"
	"strings"
)

// FilterOptions carries the visual parameters for caption rendering.
type FilterOptions struct {
	FontPath  string
	FontSize  int
	FontColor string
	BoxColor  string
}

// BuildFilter renders the drawtext filter chain that displays each word in
// its window. Filters are comma-chained so they apply in sequence on the
// single video stream.
func BuildFilter(windows []WordWindow, opts FilterOptions) string {
	filters := make([]string, 0, len(windows))
	for _, window := range windows {
		filters = append(filters, drawtextFilter(window, opts))
	}
	return strings.Join(filters, ",")
}

func drawtextFilter(window WordWindow, opts FilterOptions) string {
	var builder strings.Builder
	builder.WriteString("drawtext=text=")
	builder.WriteString(escapeText(window.Text))
	if opts.FontPath != "" {
		fmt.Fprintf(&builder, ":fontfile='%s'", opts.FontPath)
	}
	fmt.Fprintf(&builder, ":fontsize=%d", opts.FontSize)
	fmt.Fprintf(&builder, ":fontcolor=%s", opts.FontColor)
	fmt.Fprintf(&builder, ":box=1:boxcolor=%s:boxborderw=8", opts.BoxColor)
	builder.WriteString(":x=(w-text_w)/2:y=h-(2*text_h)")
	fmt.Fprintf(&builder, ":enable='between(t,%.3f,%.3f)'", window.Start, window.End)
	return builder.String()
}

// escapeText prepares a word for the drawtext text option. The value passes
// through two parsers: the drawtext option parser, where backslash and
// percent are special, and the filtergraph parser, handled by single-quoting
// with spliced escaped quotes.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `%`, `\%`)
	return "'" + strings.ReplaceAll(text, `'`, `'\''`) + "'"
}
