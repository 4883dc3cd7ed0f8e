// Package middleware contains the HTTP middleware of the SOLPED API:
// request ids, structured request logging, rate limiting, CORS, security
// headers, OpenTelemetry instrumentation and request validation.
//
// Order matters. The router installs them as:
//
//	RequestID -> RealIP -> StructuredLogger -> ErrorHandler.Middleware ->
//	OTelMiddleware -> SecurityHeaders -> CORS -> RateLimiter
package middleware
