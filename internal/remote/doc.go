// Package remote retrieves header-complete SOLPED tables from a shared
// spreadsheet, either through its public CSV export address or through the
// Google Sheets API v4 with an API key.
//
// Failures are returned as *errors.NetworkError (transport, non-200 answers,
// API errors) or *errors.RemoteParseError (the body is not a usable table).
// No call is retried.
package remote
