// Package app wires the SOLPED dashboard backend: configuration, logging,
// OpenTelemetry, the remote fetcher, services, middleware and routes.
//
// Initialization order:
//
//	1. Load configuration (defaults, YAML file, SOLPED_* environment)
//	2. Initialize the slog logger
//	3. Initialize OpenTelemetry and the pipeline metrics
//	4. Create the remote fetcher for the configured source mode
//	5. Create the services and HTTP handlers
//	6. Build the router and the HTTP server
//
// Run serves until SIGINT or SIGTERM and then shuts the server down within
// Server.ShutdownTimeout. Errors are returned to main; the package never
// calls os.Exit.
package app
