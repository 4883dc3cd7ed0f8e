package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"SOLPED_CONFIG_FILE",
		"SOLPED_SERVER_PORT", "SOLPED_SERVER_READ_TIMEOUT", "SOLPED_SERVER_MAX_UPLOAD_BYTES",
		"SOLPED_SECURITY_ALLOWED_ORIGINS", "SOLPED_SECURITY_ENABLE_CORS",
		"SOLPED_SECURITY_RATE_LIMIT_RPS",
		"SOLPED_LOGGING_LEVEL", "SOLPED_LOGGING_FORMAT", "SOLPED_LOGGING_OUTPUT",
		"SOLPED_SOURCE_HOST", "SOLPED_SOURCE_DOCUMENT_ID", "SOLPED_SOURCE_TAB_ID",
		"SOLPED_SOURCE_MODE", "SOLPED_SOURCE_API_KEY",
	}

	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, DefaultSourceHost, cfg.Source.Host)
				assert.Equal(t, SourceModeExport, cfg.Source.Mode)
				assert.Empty(t, cfg.Source.DocumentID)
				assert.Equal(t, DefaultSourceTimeout, cfg.Source.Timeout)

				assert.True(t, cfg.Telemetry.MetricsEnabled)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"SOLPED_SERVER_PORT":              "9090",
				"SOLPED_SERVER_READ_TIMEOUT":      "30s",
				"SOLPED_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"SOLPED_LOGGING_LEVEL":            "debug",
				"SOLPED_LOGGING_FORMAT":           "text",
				"SOLPED_SOURCE_HOST":              "http://sheets.local/d/",
				"SOLPED_SOURCE_DOCUMENT_ID":       "doc-123",
				"SOLPED_SOURCE_TAB_ID":            "42",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
				assert.Equal(t, "http://sheets.local/d", cfg.Source.Host)
				assert.Equal(t, "doc-123", cfg.Source.DocumentID)
				assert.Equal(t, "42", cfg.Source.TabID)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"SOLPED_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"SOLPED_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins with cors",
			env:     map[string]string{"SOLPED_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name: "empty allowed origins without cors",
			env: map[string]string{
				"SOLPED_SECURITY_ALLOWED_ORIGINS": "",
				"SOLPED_SECURITY_ENABLE_CORS":     "false",
			},
		},
		{
			name:    "unknown source mode",
			env:     map[string]string{"SOLPED_SOURCE_MODE": "ftp"},
			wantErr: true,
		},
		{
			name:    "sheets api mode without key",
			env:     map[string]string{"SOLPED_SOURCE_MODE": "sheets_api"},
			wantErr: true,
		},
		{
			name: "sheets api mode with key",
			env: map[string]string{
				"SOLPED_SOURCE_MODE":    "sheets_api",
				"SOLPED_SOURCE_API_KEY": "key",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, SourceModeSheetsAPI, cfg.Source.Mode)
				assert.Equal(t, "key", cfg.Source.APIKey)
			},
		},
		{
			name:    "non-numeric port",
			env:     map[string]string{"SOLPED_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"SOLPED_SERVER_PORT":   "7070",
				"SOLPED_LOGGING_LEVEL": "warn",
			},
			fileContent: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
source:
  document_id: file-doc
  tab_id: "7"
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)                    // from env
				assert.Equal(t, "warn", cfg.Logging.Level)                // from env
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)   // from file
				assert.Equal(t, "file-doc", cfg.Source.DocumentID)        // from file
				assert.Equal(t, "7", cfg.Source.TabID)                    // from file
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout) // default
			},
		},
		{
			name:        "invalid config file",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				t.Setenv(envVar, "")
				os.Unsetenv(envVar)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if tt.fileContent != "" {
				configFile := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
				t.Setenv("SOLPED_CONFIG_FILE", configFile)
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

// TestLoadFromFile tests the loadFromFile function
func TestLoadFromFile(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 8888\n"), 0644))

		cfg := Default()
		require.NoError(t, loadFromFile(configFile, cfg))
		assert.Equal(t, 8888, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, DefaultSourceHost, cfg.Source.Host)
	})

	t.Run("missing file", func(t *testing.T) {
		err := loadFromFile(filepath.Join(t.TempDir(), "nope.yaml"), Default())
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().validate())
	})

	t.Run("unknown log output falls back to console", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "syslog"
		require.NoError(t, cfg.validate())
		assert.Equal(t, "console", cfg.Logging.Output)
	})

	t.Run("file output gets a default path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "both"
		cfg.Logging.FilePath = ""
		require.NoError(t, cfg.validate())
		assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
	})

	t.Run("zero source timeout disables the limit", func(t *testing.T) {
		cfg := Default()
		cfg.Source.Timeout = 0
		require.NoError(t, cfg.validate())
		assert.Equal(t, time.Duration(0), cfg.Source.Timeout)
	})

	t.Run("negative source timeout rejected", func(t *testing.T) {
		cfg := Default()
		cfg.Source.Timeout = -time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("rate limit needs positive values", func(t *testing.T) {
		cfg := Default()
		cfg.Security.RateLimit.Burst = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("empty host", func(t *testing.T) {
		cfg := Default()
		cfg.Source.Host = ""
		assert.Error(t, cfg.validate())
	})
}
