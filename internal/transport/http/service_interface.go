package http

import (
	"context"
	"io"

	"solpedcli/internal/services"
	"solpedcli/pkg/contracts/domain"
)

// SolpedServiceInterface is the part of services.SolpedService the handlers use
type SolpedServiceInterface interface {
	IngestWorkbook(ctx context.Context, r io.Reader, filename string) (*services.DatasetInfo, error)
	IngestRemote(ctx context.Context, documentID, tabID string) (*services.DatasetInfo, error)
	Current(ctx context.Context) (*services.DatasetInfo, error)
	Summary(ctx context.Context) (domain.Summary, error)
	Distribution(ctx context.Context) ([]domain.StatusCount, error)
	Options(ctx context.Context) (domain.FilterOptions, error)
	Filter(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, error)
	MonthlyTrend(ctx context.Context, spec domain.FilterSpec, field domain.FieldID) (*services.MonthlyTrend, error)
	QuantityChart(ctx context.Context, spec domain.FilterSpec) (*services.QuantityChart, error)
	ExportCSV(ctx context.Context, w io.Writer, spec domain.FilterSpec, bom bool) (int, error)
}

// HealthServiceInterface is the part of services.HealthService the handlers use
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

var (
	_ SolpedServiceInterface = (*services.SolpedService)(nil)
	_ HealthServiceInterface = (*services.HealthService)(nil)
)
