// Package utils provides conversion helpers for spreadsheet cell values.
// Cells arrive as untyped values (strings from Sheets, strings or numbers from tests),
// and features convert them with ToString, ToTrimmedString and ToFloat.
package utils
