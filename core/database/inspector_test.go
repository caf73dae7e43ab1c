package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["description"])

	// PRAGMA table_info returns an empty result for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestCheckTables(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE registry_properties (key TEXT PRIMARY KEY, value TEXT)").Error)

	reports, err := CheckTables(db, map[string][]string{
		"registry_properties": {"key", "value", "updated_at"},
		"oauth_tokens":        {"account"},
	})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "oauth_tokens", reports[0].Table)
	assert.False(t, reports[0].Exists)
	assert.Equal(t, []string{"account"}, reports[0].Missing)

	assert.Equal(t, "registry_properties", reports[1].Table)
	assert.True(t, reports[1].Exists)
	assert.Equal(t, []string{"updated_at"}, reports[1].Missing)
}
