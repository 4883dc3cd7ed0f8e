// Command solped-report ingests a SOLPED workbook or remote tab, applies the
// requested filters, logs the metrics and writes the filtered view as CSV.
//
//	solped-report -file SOLPED_VS_OC.xlsx -status WithoutPO
//	solped-report -doc 1AbC... -tab 1183146257 -requester "Ana,Luis" -out filtrado.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"solpedcli/internal/config"
	"solpedcli/internal/dataprocessing"
	apperrors "solpedcli/internal/errors"
	"solpedcli/internal/exporter"
	"solpedcli/internal/infrastructure"
	"solpedcli/internal/remote"
	"solpedcli/internal/services"
	"solpedcli/internal/validation"
	"solpedcli/pkg/contracts"
	"solpedcli/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitStructural = 3
	exitRemote     = 4
)

type options struct {
	file       string
	documentID string
	tabID      string
	host       string
	requesters string
	centers    string
	status     string
	out        string
	bom        bool
	logLevel   string
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("solped-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.file, "file", "", "path to a SOLPED .xlsx workbook")
	fs.StringVar(&opts.documentID, "doc", "", "remote document id (defaults to SOLPED_SOURCE_DOCUMENT_ID)")
	fs.StringVar(&opts.tabID, "tab", "", "remote tab id (defaults to SOLPED_SOURCE_TAB_ID)")
	fs.StringVar(&opts.host, "host", "", "remote export host (defaults to SOLPED_SOURCE_HOST)")
	fs.StringVar(&opts.requesters, "requester", "", "comma-separated requesters to keep")
	fs.StringVar(&opts.centers, "center", "", "comma-separated centers to keep")
	fs.StringVar(&opts.status, "status", "All", "status to keep: All, WithPO or WithoutPO")
	fs.StringVar(&opts.out, "out", config.ExportFileName, "output CSV path")
	fs.BoolVar(&opts.bom, "bom", false, "prefix the CSV with a UTF-8 BOM")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.file != "" && (opts.documentID != "" || opts.tabID != "") {
		return nil, fmt.Errorf("-file cannot be combined with -doc or -tab")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.host != "" {
		cfg.Source.Host = strings.TrimRight(opts.host, "/")
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitFailure
	}
	logger = infrastructure.WithComponent(logger, "solped_report")
	ctx = infrastructure.EnsureTraceID(ctx)

	status, err := dataprocessing.ParseStatusSelection(opts.status)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Invalid status")
		return exitUsage
	}
	spec := domain.FilterSpec{
		Requesters: splitList(opts.requesters),
		Centers:    splitList(opts.centers),
		Status:     status,
	}

	var fetcher remote.Fetcher
	if opts.file == "" {
		if opts.documentID == "" && cfg.Source.DocumentID == "" {
			logger.Error("No input: pass -file, or -doc (or set SOLPED_SOURCE_DOCUMENT_ID)")
			return exitUsage
		}
		fetcher, err = remote.NewFetcher(ctx, cfg.Source, logger)
		if err != nil {
			infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to create remote fetcher")
			return exitFailure
		}
	}

	svc := services.NewSolpedService(cfg.Source, fetcher, nil, nil, logger)

	info, err := ingest(ctx, svc, opts, logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Ingestion failed")
		return exitCode(err)
	}

	logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", info.Source),
		slog.Int("records", info.Records),
		slog.Int("columns", len(info.Columns)))
	logger.InfoContext(ctx, "Metrics",
		slog.Int("total", info.Summary.Total),
		slog.Int("with_po", info.Summary.WithPO),
		slog.Int("without_po", info.Summary.WithoutPO))

	if err := report(ctx, svc, spec, logger); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Report failed")
		return exitCode(err)
	}

	view, err := svc.Filter(ctx, spec)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Filter failed")
		return exitCode(err)
	}

	if err := validation.NewWorkbookValidator(logger).ValidateOutputPath(opts.out); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Invalid output path", slog.String("path", opts.out))
		return exitFailure
	}

	path, err := exporter.NewCSVWriter("").WriteViewFile(opts.out, view, exporter.WriteOptions{BOMPrefix: opts.bom})
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write CSV", slog.String("path", opts.out))
		return exitFailure
	}

	logger.InfoContext(ctx, "Filtered view written", slog.String("path", path), slog.Int("records", view.Len()))
	return exitOK
}

func ingest(ctx context.Context, svc *services.SolpedService, opts *options, logger *slog.Logger) (*services.DatasetInfo, error) {
	if opts.file == "" {
		return svc.IngestRemote(ctx, opts.documentID, opts.tabID)
	}

	if err := validation.NewWorkbookValidator(logger).ValidateFile(opts.file); err != nil {
		return nil, err
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return svc.IngestWorkbook(ctx, f, opts.file)
}

// report logs the status distribution and the WithoutPO charts of the filtered view
func report(ctx context.Context, svc *services.SolpedService, spec domain.FilterSpec, logger *slog.Logger) error {
	distribution, err := svc.Distribution(ctx)
	if err != nil {
		return err
	}
	for _, c := range distribution {
		logger.Info("Status count", slog.String("status", c.Label), slog.Int("count", c.Count))
	}

	trend, err := svc.MonthlyTrend(ctx, spec, domain.FieldRequestDate)
	if err != nil {
		return err
	}
	if trend.Available {
		for _, b := range trend.Buckets {
			logger.Info("Pending requests per month",
				slog.String("month", b.MonthStart.Format("2006-01")),
				slog.Int("count", b.Count))
		}
		if len(trend.Excluded) > 0 {
			logger.Warn("Records without a usable request date", slog.Int("excluded", len(trend.Excluded)))
		}
	}

	chart, err := svc.QuantityChart(ctx, spec)
	if err != nil {
		return err
	}
	if chart.Available {
		for _, b := range chart.Buckets {
			logger.Info("Pending requests per quantity",
				slog.Float64("quantity", b.Quantity),
				slog.Int("frequency", b.Frequency))
		}
		if len(chart.Excluded) > 0 {
			logger.Warn("Records without a usable quantity", slog.Int("excluded", len(chart.Excluded)))
		}
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// exitCode distinguishes structural input errors from remote failures
func exitCode(err error) int {
	var (
		gridErr     *apperrors.MalformedGridError
		columnErr   *apperrors.MissingColumnError
		workbookErr *apperrors.InvalidWorkbookError
		networkErr  *apperrors.NetworkError
		parseErr    *apperrors.RemoteParseError
	)

	switch {
	case errors.As(err, &gridErr), errors.As(err, &columnErr), errors.As(err, &workbookErr):
		return exitStructural
	case errors.As(err, &networkErr), errors.As(err, &parseErr):
		return exitRemote
	case errors.Is(err, apperrors.ErrInvalidFilter):
		return exitUsage
	default:
		return exitFailure
	}
}
