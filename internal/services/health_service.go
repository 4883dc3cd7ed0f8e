package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"solpedcli/internal/config"
	"solpedcli/internal/infrastructure"
	"solpedcli/pkg/contracts"
)

// DatasetProvider is the part of SolpedService the health checks look at
type DatasetProvider interface {
	Current(ctx context.Context) (*DatasetInfo, error)
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	source    config.SourceConfig
	datasets  DatasetProvider
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, source config.SourceConfig, datasets DatasetProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		source:    source,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   infrastructure.ReadSystemStats(hs.startTime).FormatStats(),
	}
}

// ReadinessCheck reports each component. Having no dataset loaded is a
// normal state and does not make the service unready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset": hs.checkDataset(ctx),
			"remote":  hs.checkRemoteSource(),
		},
	}

	for _, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	hs.logger.DebugContext(ctx, "Readiness check completed", slog.String("status", status.Status))
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":     hs.version,
		"go_version":  runtime.Version(),
		"os":          runtime.GOOS,
		"arch":        runtime.GOARCH,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
		"git_commit":  contracts.GitCommit,
		"api_version": contracts.APIVersion,
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkDataset(ctx context.Context) ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset service not initialized"}
	}

	info, err := hs.datasets.Current(ctx)
	switch {
	case errors.Is(err, ErrNoDataset):
		return ServiceHealth{Status: "ready", Message: "no dataset loaded"}
	case err != nil:
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	default:
		return ServiceHealth{
			Status:  "ready",
			Message: fmt.Sprintf("%d records from %s", info.Records, info.Source),
		}
	}
}

func (hs *HealthService) checkRemoteSource() ServiceHealth {
	if hs.source.DocumentID == "" {
		return ServiceHealth{Status: "ready", Message: "no default document configured"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%s mode, default document %s", hs.source.Mode, hs.source.DocumentID),
	}
}
