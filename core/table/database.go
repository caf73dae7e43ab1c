package table

import (
	"context"
	"fmt"

	"session-sync/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SheetCell is the persisted form of one cell of the database-backed table.
type SheetCell struct {
	Sheet string `gorm:"primaryKey;size:100"`
	Row   int    `gorm:"primaryKey;autoIncrement:false"`
	Col   int    `gorm:"primaryKey;autoIncrement:false"`
	Value string `gorm:"type:text"`
}

// TableName pins the table name.
func (SheetCell) TableName() string {
	return "sheet_cells"
}

// DBStore is a Store keeping sheets in a database table, one record per cell.
// Values are stored as strings.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a database-backed store. Call Migrate once before use.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates the cell table if needed.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&SheetCell{})
}

func (s *DBStore) ReadRows(ctx context.Context, sheet string) ([][]any, error) {
	var cells []SheetCell
	err := s.db.WithContext(ctx).
		Where("sheet = ?", sheet).
		Order("`row`, `col`").
		Find(&cells).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	var rows [][]any
	for _, c := range cells {
		for len(rows) <= c.Row {
			rows = append(rows, []any{})
		}
		for len(rows[c.Row]) <= c.Col {
			rows[c.Row] = append(rows[c.Row], "")
		}
		rows[c.Row][c.Col] = c.Value
	}
	return rows, nil
}

func (s *DBStore) WriteRange(ctx context.Context, sheet string, row, col int, values [][]any) error {
	var cells []SheetCell
	for i, vals := range values {
		for j, v := range vals {
			cells = append(cells, SheetCell{
				Sheet: sheet,
				Row:   row + i,
				Col:   col + j,
				Value: utils.ToString(v),
			})
		}
	}
	if len(cells) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sheet"}, {Name: "row"}, {Name: "col"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&cells).Error
	if err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	return nil
}

// Replace deletes every cell of a sheet and writes rows in its place.
func (s *DBStore) Replace(ctx context.Context, sheet string, rows [][]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sheet = ?", sheet).Delete(&SheetCell{}).Error; err != nil {
			return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
		}
		return (&DBStore{db: tx}).WriteRange(ctx, sheet, 0, 0, rows)
	})
}
