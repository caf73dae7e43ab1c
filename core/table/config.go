package table

// Config selects where the sheets live.
type Config struct {
	// Backend is the table backend (sheets, database).
	Backend string `mapstructure:"backend" default:"sheets"`
	// SpreadsheetID is the Google Sheets document id for the sheets backend.
	SpreadsheetID string `mapstructure:"spreadsheet_id" default:""`
}

const (
	BackendSheets   = "sheets"
	BackendDatabase = "database"
)

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendSheets, BackendDatabase:
		return true
	default:
		return false
	}
}
