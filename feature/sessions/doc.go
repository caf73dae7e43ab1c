// Package sessions synchronizes a sheet of conference sessions with a calendar and a
// registration form.
//
// # Sheet
//
// The sessions sheet has the columns Title, Date, Start, End, Location and Event ID.
// Row 0 is the header; rows without a title are skipped. Event IDs are written back by
// Sync, one row at a time, so a failed pass keeps the progress it made.
//
// # Operations
//
//   - Sync: one calendar event per row, created or updated, never deleted.
//   - RebuildForm: one form section per date and one choice question per time slot.
//   - HandleSubmission and PollResponses: add registrants as guests and confirm by email.
//   - ExportICS: archive the sessions as an iCalendar document in object storage.
//
// Calendars come from Google Calendar or a CalDAV server; the registration form lives
// in Google Forms. Calendar and form ids are kept in the registry (core/registry).
package sessions
