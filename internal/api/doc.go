// Package api defines the JSON wire types shared by the daemon's HTTP
// surface and the CLI client.
package api
