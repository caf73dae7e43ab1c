// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure SQLite (local, single operator) or
// MySQL (shared deployment) connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver and verifies the connection with a ping bounded
// by the configured timeout. Migrate creates the tables of the persistence models
// (registry properties, OAuth tokens, sheet cells).
//
// # Schema Inspection
//
// GetTableColumns and CheckTables back the `doctor` command, which verifies that the
// expected tables exist with their columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "registry_properties")
package database
