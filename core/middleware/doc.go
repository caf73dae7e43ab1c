// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the sync triggers and the submission webhook.
//   - rayid: a request id (RayID) injected into the context and the response headers,
//     picked up by logger.WithRayID.
package middleware
