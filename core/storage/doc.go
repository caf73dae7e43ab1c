// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so tests can use the mock in
// core/storage/mocks. Upload, Download and List are the helpers the sessions feature uses
// to archive its iCalendar export.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	_, err = storage.Upload(ctx, client, config.Bucket, "exports/sessions.ics", data, "text/calendar")
package storage
