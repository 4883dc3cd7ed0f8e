package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"solpedcli/internal/config"
	"solpedcli/internal/dataprocessing"
	apperrors "solpedcli/internal/errors"
	"solpedcli/internal/exporter"
	"solpedcli/internal/infrastructure"
	"solpedcli/internal/remote"
	"solpedcli/pkg/contracts/domain"
)

// DatasetInfo describes the dataset currently held by the service
type DatasetInfo struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	IngestedAt time.Time      `json:"ingested_at"`
	Columns    []string       `json:"columns"`
	Records    int            `json:"records"`
	Summary    domain.Summary `json:"summary"`
}

// MonthlyTrend is the monthly bucket series of WithoutPO records.
// Available is false when the dataset has no column for the date field.
type MonthlyTrend struct {
	Field     string               `json:"field"`
	Available bool                 `json:"available"`
	Buckets   []domain.MonthBucket `json:"buckets"`
	Excluded  []domain.Exclusion   `json:"excluded"`
}

// QuantityChart is the quantity distribution of WithoutPO records
type QuantityChart struct {
	Available bool                    `json:"available"`
	Buckets   []domain.QuantityBucket `json:"buckets"`
	Excluded  []domain.Exclusion      `json:"excluded"`
}

// SolpedService holds the last ingested dataset and answers every
// presentation query by recomputing from it.
type SolpedService struct {
	mu      sync.RWMutex
	current *domain.Dataset

	source  config.SourceConfig
	fetcher remote.Fetcher
	metrics *infrastructure.PipelineMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewSolpedService creates the service. source supplies the default document
// and tab handles for IngestRemote. A nil tracer uses the global provider.
func NewSolpedService(source config.SourceConfig, fetcher remote.Fetcher, metrics *infrastructure.PipelineMetrics, tracer trace.Tracer, logger *slog.Logger) *SolpedService {
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	return &SolpedService{
		source:  source,
		fetcher: fetcher,
		metrics: metrics,
		tracer:  tracer,
		logger:  infrastructure.WithComponent(logger, "solped_service"),
	}
}

// IngestWorkbook runs the grid path on an uploaded workbook and replaces the current dataset.
func (s *SolpedService) IngestWorkbook(ctx context.Context, r io.Reader, filename string) (*DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "solped.ingest_workbook",
		trace.WithAttributes(attribute.String("solped.source", filename)))
	defer span.End()

	start := time.Now()
	ds, err := dataprocessing.LoadWorkbook(r, filename)
	return s.finishIngestion(ctx, "workbook", filename, ds, err, time.Since(start))
}

// IngestRemote fetches a remote tab and replaces the current dataset.
// Empty handles fall back to the configured defaults.
func (s *SolpedService) IngestRemote(ctx context.Context, documentID, tabID string) (*DatasetInfo, error) {
	if strings.TrimSpace(documentID) == "" {
		documentID = s.source.DocumentID
	}
	if strings.TrimSpace(tabID) == "" {
		tabID = s.source.TabID
	}
	sourceName := remote.SourceName(documentID, tabID)

	ctx, span := s.tracer.Start(ctx, "solped.ingest_remote",
		trace.WithAttributes(
			attribute.String("solped.document_id", documentID),
			attribute.String("solped.tab_id", tabID),
		))
	defer span.End()

	if documentID == "" {
		err := apperrors.ErrValidation("document_id", "no document id given and no default configured")
		return nil, s.failIngestion(ctx, "remote", sourceName, err, 0)
	}
	if s.fetcher == nil {
		err := &apperrors.NetworkError{URL: sourceName, Cause: errors.New("remote source is not configured")}
		return nil, s.failIngestion(ctx, "remote", sourceName, err, 0)
	}

	start := time.Now()
	table, err := s.fetcher.Fetch(ctx, documentID, tabID)
	if err != nil {
		return nil, s.failIngestion(ctx, "remote", sourceName, err, time.Since(start))
	}

	ds, err := dataprocessing.LoadTable(table, sourceName)
	return s.finishIngestion(ctx, "remote", sourceName, ds, err, time.Since(start))
}

func (s *SolpedService) finishIngestion(ctx context.Context, kind, source string, ds *domain.Dataset, err error, elapsed time.Duration) (*DatasetInfo, error) {
	if err != nil {
		return nil, s.failIngestion(ctx, kind, source, err, elapsed)
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	s.metrics.RecordIngestion(ctx, kind, infrastructure.OutcomeSuccess, ds.Len(), elapsed)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"solped.dataset_id": ds.ID,
		"solped.records":    ds.Len(),
	})

	info := datasetInfo(ds)
	s.logger.InfoContext(ctx, "Dataset ingested",
		slog.String("dataset_id", ds.ID),
		slog.String("source", source),
		slog.Int("records", info.Records),
		slog.Int("with_po", info.Summary.WithPO),
		slog.Int("without_po", info.Summary.WithoutPO),
		slog.Duration("duration", elapsed))

	return info, nil
}

// failIngestion drops the current dataset: a failed ingestion leaves no dataset behind.
func (s *SolpedService) failIngestion(ctx context.Context, kind, source string, err error, elapsed time.Duration) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	outcome := infrastructure.OutcomeStructuralFail
	var netErr *apperrors.NetworkError
	var parseErr *apperrors.RemoteParseError
	if errors.As(err, &netErr) || errors.As(err, &parseErr) {
		outcome = infrastructure.OutcomeRemoteFail
	}

	s.metrics.RecordIngestion(ctx, kind, outcome, 0, elapsed)
	infrastructure.RecordError(ctx, err)
	s.logger.WarnContext(ctx, "Ingestion failed",
		slog.String("source", source),
		slog.String("outcome", outcome),
		slog.String("error", err.Error()))

	return fmt.Errorf("ingest %s: %w", source, err)
}

// Current returns metadata of the current dataset.
func (s *SolpedService) Current(ctx context.Context) (*DatasetInfo, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return datasetInfo(ds), nil
}

// Summary returns (total, withPO, withoutPO) of the whole dataset.
func (s *SolpedService) Summary(ctx context.Context) (domain.Summary, error) {
	ds, err := s.dataset()
	if err != nil {
		return domain.Summary{}, err
	}
	return dataprocessing.ComputeMetrics(ds.Records), nil
}

// Distribution returns the status counts of the whole dataset.
func (s *SolpedService) Distribution(ctx context.Context) ([]domain.StatusCount, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return dataprocessing.StatusDistribution(ds.Records), nil
}

// Options returns the selectable requester and center values.
func (s *SolpedService) Options(ctx context.Context) (domain.FilterOptions, error) {
	ds, err := s.dataset()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dataprocessing.Options(ds), nil
}

// Filter applies spec to the current dataset.
func (s *SolpedService) Filter(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, error) {
	ds, err := s.dataset()
	if err != nil {
		return domain.FilteredView{}, err
	}
	return filterDataset(ds, spec)
}

func filterDataset(ds *domain.Dataset, spec domain.FilterSpec) (domain.FilteredView, error) {
	status, err := dataprocessing.ParseStatusSelection(string(spec.Status))
	if err != nil {
		return domain.FilteredView{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	spec.Status = status

	return dataprocessing.Filter(ds, spec), nil
}

// MonthlyTrend buckets the WithoutPO records of the filtered view by month of field.
func (s *SolpedService) MonthlyTrend(ctx context.Context, spec domain.FilterSpec, field domain.FieldID) (*MonthlyTrend, error) {
	if field != domain.FieldRequestDate && field != domain.FieldModDate {
		return nil, fmt.Errorf("%w: %s is not a date field", ErrInvalidFilter, field)
	}

	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	view, err := filterDataset(ds, spec)
	if err != nil {
		return nil, err
	}

	trend := &MonthlyTrend{
		Field:     field.String(),
		Available: ds.HasField(field),
		Buckets:   []domain.MonthBucket{},
		Excluded:  []domain.Exclusion{},
	}
	if !trend.Available {
		return trend, nil
	}

	buckets, excluded, err := dataprocessing.MonthlyBuckets(dataprocessing.RestrictStatus(view, domain.StatusWithoutPO), field)
	if err != nil {
		return nil, err
	}
	trend.Buckets = append(trend.Buckets, buckets...)
	trend.Excluded = append(trend.Excluded, excluded...)

	s.metrics.RecordExclusions(ctx, field.String(), len(excluded))
	if len(excluded) > 0 {
		s.logger.DebugContext(ctx, "Records excluded from monthly trend",
			slog.String("field", field.String()),
			slog.Int("excluded", len(excluded)))
	}
	return trend, nil
}

// QuantityChart groups the WithoutPO records of the filtered view by quantity.
func (s *SolpedService) QuantityChart(ctx context.Context, spec domain.FilterSpec) (*QuantityChart, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	view, err := filterDataset(ds, spec)
	if err != nil {
		return nil, err
	}

	chart := &QuantityChart{
		Available: ds.HasField(domain.FieldQuantity),
		Buckets:   []domain.QuantityBucket{},
		Excluded:  []domain.Exclusion{},
	}
	if !chart.Available {
		return chart, nil
	}

	buckets, excluded := dataprocessing.QuantityDistribution(dataprocessing.RestrictStatus(view, domain.StatusWithoutPO))
	chart.Buckets = append(chart.Buckets, buckets...)
	chart.Excluded = append(chart.Excluded, excluded...)

	s.metrics.RecordExclusions(ctx, domain.FieldQuantity.String(), len(excluded))
	return chart, nil
}

// ExportCSV writes the filtered view as CSV and returns the number of records written.
func (s *SolpedService) ExportCSV(ctx context.Context, w io.Writer, spec domain.FilterSpec, bom bool) (int, error) {
	view, err := s.Filter(ctx, spec)
	if err != nil {
		return 0, err
	}

	if err := exporter.WriteView(w, view, exporter.WriteOptions{BOMPrefix: bom}); err != nil {
		return 0, fmt.Errorf("export csv: %w", err)
	}

	s.logger.InfoContext(ctx, "Filtered view exported", slog.Int("records", view.Len()))
	return view.Len(), nil
}

// dataset returns the current dataset or ErrNoDataset.
func (s *SolpedService) dataset() (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

func datasetInfo(ds *domain.Dataset) *DatasetInfo {
	return &DatasetInfo{
		ID:         ds.ID,
		Source:     ds.Source,
		IngestedAt: ds.IngestedAt,
		Columns:    ds.ColumnNames(),
		Records:    ds.Len(),
		Summary:    dataprocessing.ComputeMetrics(ds.Records),
	}
}
