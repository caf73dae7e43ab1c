// Package config provides configuration management for session-sync.
//
// Settings come from environment variables, optionally seeded from a .env file.
// Every key has a default declared in the `default` struct tag of its section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and timeouts
//   - Log: level and format
//   - Database: registry, OAuth token and database-table persistence
//   - Storage: S3/MinIO endpoint for iCalendar exports
//   - Google: service account key or OAuth client
//   - Table: sheets backend (Google Sheets or database)
//   - Calendar: calendar provider (Google Calendar or CalDAV)
//   - Sessions, Payroll: feature settings
//   - Mail: mail driver and sender address
//
// Environment keys join section and key with an underscore, e.g. SESSIONS_TIME_ZONE.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
