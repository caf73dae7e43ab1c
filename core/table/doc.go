// Package table abstracts the spreadsheet that holds the synchronized rows.
//
// A Store reads all rows of a named sheet (row 0 is the header) and writes blocks of
// values back at 0-based coordinates. Writes are small and targeted: the reconciler
// commits one identifier cell per row as soon as the row's external call succeeds.
//
// # Implementations
//
//   - SheetsStore: Google Sheets through the Sheets v4 API (A1 ranges, RAW input).
//   - DBStore: one database record per cell (sheet_cells), for deployments without
//     Google Sheets. ImportCSV seeds it from a CSV export.
//   - Memory: an in-process store for tests.
package table
