// Package server provides a read-only HTTP facade over the shared link
// document.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. Route patterns use the
// method-qualified [http.ServeMux] syntax ("GET /api/doc").
//
// # Middleware
//
// Every request gets an X-Request-ID (client-supplied or generated) and a
// structured access log line. The request id rides the request context so
// handlers can tag their own log output.
//
// # Endpoints
//
//	GET /health                     → liveness probe
//	GET /api/doc                    → the full shared document
//	GET /api/users/{username}/links → one user's entries, newest first
//	GET /api/resolve?url=...        → classify + resolve a URL without storing it
//
// All endpoints are projections; nothing here mutates the document.
package server
