// Package reconcile provides the idempotent row synchronization engine.
//
// A table row describes a desired external resource (a calendar event). The engine
// compares each row with the live state of the resource service and decides, row by
// row, whether to create a new resource or overwrite the existing one. The resulting
// identifier is committed back into the row before the next row is processed.
//
// # Decisions
//
//   - No stored identifier: create.
//   - Stored identifier that no longer resolves (deleted externally, ErrResourceNotFound): recreate.
//   - Stored identifier that resolves: update (overwrite title, time and location).
//
// Resources are never deleted. Removing a row from the table leaves its resource alone;
// deletion is a manual operation.
//
// # Failure Model
//
// Errors wrapping ErrTransientUnavailable abort the pass. Rows processed before the
// failure keep their committed identifiers, and re-running the pass is a no-op for them
// because updates are overwrite-based.
//
// # Single Writer
//
// ReconcileTable guards each table with a singleflight group so that concurrent
// triggers (HTTP, CLI) never run two passes over the same table at once.
//
// # Grouping
//
// GroupByTimeSlot clusters rows by localized (date, time) in first-seen order. It is
// used to derive registration form questions.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Table:     "Sessions",
//	    Adapter:   calendarAdapter,
//	    Committer: reconcile.CommitFunc(writeEventID),
//	}
//	plan, err := reconcile.Reconcile(ctx, spec, rows, reconcile.Options{})
package reconcile
