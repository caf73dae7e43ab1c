package reconcile

import (
	"context"
	"fmt"
)

// RowLoader reads the current rows of a table.
type RowLoader func(ctx context.Context) ([]Row, error)

// ReconcileTable loads the rows of spec.Table and reconciles them while holding the
// table's single-writer guard. A concurrent call for the same table and mode joins the
// pass in flight and receives its plan; shared reports whether that happened.
func ReconcileTable(ctx context.Context, spec *Spec, load RowLoader, opts Options) (plan *Plan, shared bool, err error) {
	if spec == nil || spec.Table == "" {
		return nil, false, fmt.Errorf("reconcile: spec has no table")
	}

	return globalGuard.do(guardKey(spec.Table, opts), func() (*Plan, error) {
		rows, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load rows of %s: %w", spec.Table, err)
		}
		return Reconcile(ctx, spec, rows, opts)
	})
}

// Pending returns the rows that still carry no identifier after a pass.
// After a successful non-dry-run pass it is empty.
func (p *Plan) Pending() []Row {
	var pending []Row
	for _, row := range p.Rows {
		if row.ResourceID == "" {
			pending = append(pending, row)
		}
	}
	return pending
}
