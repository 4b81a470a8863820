// Package queue persists pipeline runs in SQLite and models their status
// lifecycle from pending through the five stages to completed or failed.
package queue
