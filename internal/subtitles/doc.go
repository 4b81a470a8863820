// Package subtitles models SRT cues and handles reading and writing
// subtitle documents for the pipeline.
package subtitles
