// Package server runs the key material HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown with a bounded grace period.
package server
