package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Reconcile runs a create-or-update pass over rows, strictly in order.
//
// For each row, a missing or unresolvable stored identifier leads to a create; a
// resolvable one leads to an overwrite-based update. The resulting identifier is
// committed through spec.Committer before the next row is touched, so a failing row
// leaves every earlier row committed. On failure the returned plan holds the rows
// processed so far together with the error.
func Reconcile(ctx context.Context, spec *Spec, rows []Row, opts Options) (*Plan, error) {
	if spec == nil || spec.Adapter == nil {
		return nil, fmt.Errorf("reconcile: spec has no adapter")
	}

	plan := &Plan{
		Rows:   make([]Row, len(rows)),
		DryRun: opts.DryRun,
	}
	copy(plan.Rows, rows)
	plan.Summary.TotalRows = len(rows)

	for i := range plan.Rows {
		if err := ctx.Err(); err != nil {
			return plan, err
		}

		row := &plan.Rows[i]
		action, resource, err := decide(ctx, spec.Adapter, *row)
		if err != nil {
			return plan, fmt.Errorf("row %d (%s): %w", row.Position, row.Title, err)
		}

		if opts.DryRun {
			plan.record(action)
			continue
		}

		switch action.Type {
		case ActionCreate, ActionRecreate:
			created, err := spec.Adapter.Create(ctx, row.Payload())
			if err != nil {
				return plan, fmt.Errorf("row %d (%s): create: %w", row.Position, row.Title, err)
			}
			if created == nil || created.ID == "" {
				return plan, fmt.Errorf("row %d (%s): adapter %s returned no identifier", row.Position, row.Title, spec.Adapter.Name())
			}
			row.ResourceID = created.ID
			action.ResourceID = created.ID

			if spec.Committer != nil {
				if err := spec.Committer.CommitID(ctx, *row); err != nil {
					return plan, fmt.Errorf("row %d (%s): commit id: %w", row.Position, row.Title, err)
				}
				plan.Summary.Committed++
			}

		case ActionUpdate:
			if err := spec.Adapter.Update(ctx, resource, row.Payload()); err != nil {
				return plan, fmt.Errorf("row %d (%s): update: %w", row.Position, row.Title, err)
			}
		}

		plan.record(action)
	}

	return plan, nil
}

// decide resolves the stored identifier of a row and returns the action to take.
// For updates, the resolved resource is returned as well.
func decide(ctx context.Context, adapter Adapter, row Row) (Action, *Resource, error) {
	action := Action{
		Position: row.Position,
		Key:      row.Title,
	}

	if row.ResourceID == "" {
		action.Type = ActionCreate
		action.Reason = "no stored identifier"
		return action, nil, nil
	}

	resource, err := adapter.Resolve(ctx, row.ResourceID)
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		return action, nil, fmt.Errorf("resolve %s: %w", row.ResourceID, err)
	}

	if err != nil || resource == nil {
		action.Type = ActionRecreate
		action.PreviousID = row.ResourceID
		action.Reason = fmt.Sprintf("stored identifier %s no longer resolves", row.ResourceID)
		return action, nil, nil
	}

	action.Type = ActionUpdate
	action.ResourceID = row.ResourceID
	action.Reason = "overwrite from row"
	return action, resource, nil
}
