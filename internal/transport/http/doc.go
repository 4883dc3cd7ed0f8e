// Package http implements the HTTP handlers of the SOLPED dashboard backend.
// Handlers stay thin: they parse the request, call the service and render
// the result. Errors are converted to RFC 7807 problem details by
// errors.ErrorHandler.
//
// # Routes
//
// SolpedHandler.Routes is mounted under /api/v1:
//
//	POST /datasets/upload     multipart "file" (.xlsx or .xlsm), grid ingestion
//	POST /datasets/remote     {"document_id", "tab_id"}, remote ingestion
//	GET  /datasets/current    dataset metadata
//	GET  /summary             (total, with_po, without_po) of the whole dataset
//	GET  /distribution        records per status
//	GET  /options             requester and center selector values
//	GET  /records             filtered view
//	GET  /charts/monthly      WithoutPO records per month (field=request_date|mod_date)
//	GET  /charts/quantity     WithoutPO records per quantity
//	GET  /export.csv          filtered view as CSV
//
// The filtered endpoints accept repeatable requester and center parameters
// and status=All|WithPO|WithoutPO.
//
// HealthHandler serves /health, /health/ready, /health/live and /version.
package http
