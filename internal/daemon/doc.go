// Package daemon hosts the long-running wordburn process: the workflow
// manager, the HTTP API, the browser submission pages, and the single
// instance lock.
package daemon
