// Package services holds the shared plumbing used by the external-tool
// clients: the error taxonomy for stage failures, context annotations for
// structured logging, and subprocess execution helpers.
package services
