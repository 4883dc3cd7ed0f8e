// Package config provides centralized configuration management for the SOLPED
// dashboard backend and report CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (SOLPED_CONFIG_FILE, solped.yaml or config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SOLPED_<SECTION>_<FIELD>:
//
//	SOLPED_SERVER_PORT=8080
//	SOLPED_LOGGING_LEVEL=debug
//	SOLPED_SOURCE_DOCUMENT_ID=1AbC...
//	SOLPED_SOURCE_TAB_ID=0
//	SOLPED_SOURCE_MODE=sheets_api
//	SOLPED_SOURCE_API_KEY=...
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use config.Default(), which needs no environment.
package config
