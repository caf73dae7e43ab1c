// Package google wires the Google API clients (Calendar, Sheets, Forms, Gmail).
//
// ClientOptions yields the option.ClientOption list shared by every service client,
// backed either by a service account key or by an OAuth token persisted per account in
// the database. ClassifyError maps API errors to the error kinds of core/reconcile.
package google
