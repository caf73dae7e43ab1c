package table

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore is a Store backed by a Google Sheets spreadsheet.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	classify      func(error) error
}

// NewSheetsStore creates a store for one spreadsheet. classify maps API errors to
// error kinds; it may be nil.
func NewSheetsStore(ctx context.Context, spreadsheetID string, classify func(error) error, opts ...option.ClientOption) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	if classify == nil {
		classify = func(err error) error { return err }
	}
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		classify:      classify,
	}, nil
}

func (s *SheetsStore) ReadRows(ctx context.Context, sheet string) ([][]any, error) {
	rng := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, s.classify(err))
	}

	return resp.Values, nil
}

func (s *SheetsStore) WriteRange(ctx context.Context, sheet string, row, col int, values [][]any) error {
	rng := A1(sheet, row, col)
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", rng, s.classify(err))
	}
	return nil
}
