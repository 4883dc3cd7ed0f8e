package config

import (
	"time"

	"solpedcli/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "solped-dashboard"
	AppVersion = contracts.Version

	// Environment variable prefix, e.g. SOLPED_SERVER_PORT
	EnvPrefix = "SOLPED"

	// Remote source
	DefaultSourceHost    = "https://docs.google.com/spreadsheets/d"
	DefaultSourceTimeout = 30 * time.Second

	// Uploads
	DefaultMaxUploadBytes = 32 << 20 // 32MB

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/solped.log"

	// Export
	ExportFileName = "solped_filtrado.csv"

	// API Endpoints
	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/health"
	MetricsEndpoint = "/metrics"
)
