package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

// Replacer is implemented by stores that can swap the whole content of a sheet.
type Replacer interface {
	Replace(ctx context.Context, sheet string, rows [][]any) error
}

// ImportCSV reads a CSV document (header first) and replaces the sheet with it.
func ImportCSV(ctx context.Context, store Replacer, sheet string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("csv has no header row")
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = make([]any, len(rec))
		for j, v := range rec {
			rows[i][j] = v
		}
	}

	if err := store.Replace(ctx, sheet, rows); err != nil {
		return 0, err
	}
	return len(rows) - 1, nil
}
