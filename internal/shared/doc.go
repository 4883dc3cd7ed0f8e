// Package shared holds code used by more than one layer of the SOLPED service
// that belongs to none of them.
//
// The testutil subpackage provides test tooling:
//
//   - NewTestLogger returns a *slog.Logger backed by a BufferedSlogHandler
//     so tests can assert on emitted records and attributes.
//   - SolpedWorkbook and friends build in-memory .xlsx workbooks laid out
//     like the procurement report (two leading rows, then the header).
//
// Example usage:
//
//	func TestIngest(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    buf := testutil.SolpedWorkbookBytes(t, testutil.SampleSolpedRows())
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "Dataset ingested")
//	}
package shared
