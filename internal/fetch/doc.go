// Package fetch implements the download stage of the pipeline.
package fetch
