// Package scenes detects scene boundaries in fetched videos using ffmpeg's
// scene-change filter.
package scenes
