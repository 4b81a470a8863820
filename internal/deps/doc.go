// Package deps inspects the external binaries the pipeline shells out to.
package deps
