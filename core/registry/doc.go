// Package registry stores external resource identifiers across invocations.
//
// The registry maps logical names (KeyCalendarID, KeyFormID) to the identifiers of
// resources created by earlier passes. Entries are written lazily on the first
// successful creation, read on every pass, and removed all at once by Clear. Clearing
// the registry never touches the external resources themselves.
//
// Two implementations are provided:
//   - Store: a GORM-backed table (registry_properties), used by the CLI and server.
//   - Memory: an in-process map for tests and dry runs.
package registry
