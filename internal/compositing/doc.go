// Package compositing burns word-by-word animated captions into videos.
//
// Subtitle cues are expanded into per-word display windows, each rendered as
// an ffmpeg drawtext filter gated by an enable=between(t,...) expression.
package compositing
