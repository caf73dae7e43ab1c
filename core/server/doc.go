// Package server holds the HTTP server configuration and the error-to-status mapping
// shared by every feature handler.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the request timeouts.
//
// # Errors
//
// StatusFor maps the error kinds of core/reconcile to HTTP statuses: a missing stored
// identifier is a 409 Conflict, an unavailable upstream service a 503, anything else a 500.
package server
