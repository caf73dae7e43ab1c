package table

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Store reads and writes the cells of named sheets.
// Row and column coordinates are 0-based; row 0 is the header row.
type Store interface {
	// ReadRows returns every row of the sheet, header included.
	// Rows may be shorter than the header when trailing cells are empty.
	ReadRows(ctx context.Context, sheet string) ([][]any, error)

	// WriteRange writes a block of values whose top-left cell is (row, col).
	WriteRange(ctx context.Context, sheet string, row, col int, values [][]any) error
}

// ColumnLetter converts a 0-based column index into its A1 letter (0 -> A, 26 -> AA).
func ColumnLetter(col int) string {
	var sb strings.Builder
	col++
	for col > 0 {
		col--
		sb.WriteByte(byte('A' + col%26))
		col /= 26
	}
	letters := []byte(sb.String())
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// A1 returns the A1 notation of a 0-based cell on a sheet, e.g. 'Sessions'!F2.
func A1(sheet string, row, col int) string {
	return fmt.Sprintf("'%s'!%s%d", strings.ReplaceAll(sheet, "'", "''"), ColumnLetter(col), row+1)
}

// Cell returns the value at col of a row, or nil when the row is shorter.
func Cell(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// Memory is an in-process Store, used in tests.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]any
	writes int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]any)}
}

// Put replaces the content of a sheet.
func (m *Memory) Put(sheet string, rows [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = cloneRows(rows)
}

// Writes returns the number of WriteRange calls.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *Memory) ReadRows(ctx context.Context, sheet string) ([][]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	return cloneRows(rows), nil
}

func (m *Memory) WriteRange(ctx context.Context, sheet string, row, col int, values [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sheets[sheet]
	for i, vals := range values {
		r := row + i
		for len(rows) <= r {
			rows = append(rows, []any{})
		}
		for j, v := range vals {
			c := col + j
			for len(rows[r]) <= c {
				rows[r] = append(rows[r], "")
			}
			rows[r][c] = v
		}
	}
	m.sheets[sheet] = rows
	m.writes++
	return nil
}

func cloneRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}
