// Package transcription implements the speech-to-text stage of the pipeline.
package transcription
