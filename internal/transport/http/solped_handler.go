package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"solpedcli/internal/config"
	apierrors "solpedcli/internal/errors"
	"solpedcli/internal/exporter"
	"solpedcli/internal/middleware"
	"solpedcli/internal/validation"
	api "solpedcli/pkg/contracts/api/v1"
	"solpedcli/pkg/contracts/domain"
)

// Chart date fields accepted by /charts/monthly
var monthlyFields = map[string]domain.FieldID{
	"request_date": domain.FieldRequestDate,
	"mod_date":     domain.FieldModDate,
}

// SolpedHandler exposes the pipeline outputs over HTTP
type SolpedHandler struct {
	service        SolpedServiceInterface
	validator      *middleware.ValidationMiddleware
	query          *middleware.QueryParamValidator
	workbooks      *validation.WorkbookValidator
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewSolpedHandler creates the handler. maxUploadBytes bounds workbook uploads.
func NewSolpedHandler(service SolpedServiceInterface, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *SolpedHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &SolpedHandler{
		service:        service,
		validator:      validator,
		query:          middleware.NewQueryParamValidator(logger, errorHandler),
		workbooks:      validation.NewWorkbookValidator(logger),
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("component", "solped_handler")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset and query routes
func (h *SolpedHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/datasets", func(r chi.Router) {
		r.With(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data")).
			Post("/upload", h.UploadWorkbook)
		r.With(h.validator.ValidateJSONBody).
			Post("/remote", h.IngestRemote)
		r.Get("/current", h.CurrentDataset)
	})

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.Summary)
		r.Get("/distribution", h.Distribution)
		r.Get("/options", h.Options)
		r.Get("/records", h.Records)
		r.Get("/charts/monthly", h.MonthlyChart)
		r.Get("/charts/quantity", h.QuantityChart)
	})

	r.Get("/export.csv", h.ExportCSV)

	return r
}

// UploadWorkbook handles POST /datasets/upload
func (h *SolpedHandler) UploadWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.errorHandler.HandleError(w, r, err)
		case errors.Is(err, http.ErrMissingFile):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
		default:
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "Workbook upload received",
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	if err := h.workbooks.ValidateUpload(file, header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info, err := h.service.IngestWorkbook(r.Context(), file, header.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// IngestRemote handles POST /datasets/remote
func (h *SolpedHandler) IngestRemote(w http.ResponseWriter, r *http.Request) {
	var req api.RemoteIngestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	req.Normalize()
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info, err := h.service.IngestRemote(r.Context(), req.DocumentID, req.TabID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// CurrentDataset handles GET /datasets/current
func (h *SolpedHandler) CurrentDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Current(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// Summary handles GET /summary
func (h *SolpedHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// Distribution handles GET /distribution
func (h *SolpedHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Distribution(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.DistributionResponse{Statuses: counts})
}

// Options handles GET /options
func (h *SolpedHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// Records handles GET /records
func (h *SolpedHandler) Records(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Filter(r.Context(), filterSpecFromQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	columns, rows := exporter.ViewRows(view)
	render.JSON(w, r, api.RecordsResponse{Columns: columns, Rows: rows, Total: view.Len()})
}

// MonthlyChart handles GET /charts/monthly
func (h *SolpedHandler) MonthlyChart(w http.ResponseWriter, r *http.Request) {
	name, ok := h.query.ValidateEnum(w, r, "field", []string{"request_date", "mod_date"}, "request_date")
	if !ok {
		return
	}

	trend, err := h.service.MonthlyTrend(r.Context(), filterSpecFromQuery(r), monthlyFields[name])
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, trend)
}

// QuantityChart handles GET /charts/quantity
func (h *SolpedHandler) QuantityChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.QuantityChart(r.Context(), filterSpecFromQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, chart)
}

// ExportCSV handles GET /export.csv. The body is buffered so a failed export
// still produces a problem response.
func (h *SolpedHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	bom, ok := h.query.ValidateBool(w, r, "bom", false)
	if !ok {
		return
	}

	var buf bytes.Buffer
	count, err := h.service.ExportCSV(r.Context(), &buf, filterSpecFromQuery(r), bom)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", config.ExportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "CSV export interrupted", slog.String("error", err.Error()))
	}
}

// filterSpecFromQuery reads requester, center and status. Status is validated by the service.
func filterSpecFromQuery(r *http.Request) domain.FilterSpec {
	q := r.URL.Query()
	return api.FilterQuery{
		Requesters: q["requester"],
		Centers:    q["center"],
		Status:     q.Get("status"),
	}.Spec()
}
