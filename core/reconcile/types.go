package reconcile

import "time"

// Row is one data record of a synchronized table.
// Position is the 1-based index of the row in the source table; position 0 is the header.
type Row struct {
	// Position is the row index in the table (header excluded, first data row is 1).
	Position int `json:"position"`

	// Title is the display title of the resource.
	Title string `json:"title"`

	// Start is the start of the resource, date and clock combined in the table's zone.
	Start time.Time `json:"start"`

	// End is the end of the resource.
	End time.Time `json:"end"`

	// Location is a free-form location string.
	Location string `json:"location"`

	// ResourceID is the stored external identifier. Empty means none was stored yet.
	ResourceID string `json:"resource_id"`
}

// Payload returns the mutable fields the row asks the external resource to carry.
func (r Row) Payload() Payload {
	return Payload{
		Title:    r.Title,
		Start:    r.Start,
		End:      r.End,
		Location: r.Location,
	}
}

// Payload holds the mutable fields of an external resource.
type Payload struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
}

// Resource is an externally managed object (calendar event) identified by an opaque id.
type Resource struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
	Guests   []string  `json:"guests"`
}

// ActionType names the decision taken for a row.
type ActionType string

const (
	// ActionCreate creates a resource for a row that never stored an id.
	ActionCreate ActionType = "create"
	// ActionRecreate creates a resource for a row whose stored id no longer resolves.
	ActionRecreate ActionType = "recreate"
	// ActionUpdate overwrites the mutable fields of an existing resource.
	ActionUpdate ActionType = "update"
)

// Action is the create-or-update decision for a single row.
type Action struct {
	// Type is the decision.
	Type ActionType `json:"type"`

	// Position is the table position of the row.
	Position int `json:"position"`

	// Key is the row title, used for reporting.
	Key string `json:"key"`

	// ResourceID is the identifier the row carries after the action.
	// It is empty for create/recreate actions planned in dry-run mode.
	ResourceID string `json:"resource_id"`

	// PreviousID is the stale identifier replaced by a recreate action.
	PreviousID string `json:"previous_id,omitempty"`

	// Reason explains the decision.
	Reason string `json:"reason"`
}

// PlanSummary counts the decisions of a pass.
type PlanSummary struct {
	TotalRows int `json:"total_rows"`
	Creates   int `json:"creates"`
	Recreates int `json:"recreates"`
	Updates   int `json:"updates"`
	Committed int `json:"committed"`
}

// Plan is the outcome of a reconciliation pass.
type Plan struct {
	// Rows holds the input rows with their resulting identifiers, in input order.
	Rows []Row `json:"rows"`

	// Actions holds one decision per processed row, in processing order.
	Actions []Action `json:"actions"`

	// Summary counts the decisions.
	Summary PlanSummary `json:"summary"`

	// DryRun is true if no external mutation was performed.
	DryRun bool `json:"dry_run"`
}

// Options controls a reconciliation pass.
type Options struct {
	// DryRun resolves stored identifiers and reports decisions without creating,
	// updating or committing anything.
	DryRun bool
}

// Spec bundles what a reconciliation pass operates on.
type Spec struct {
	// Table is the name of the source table. It keys the single-writer guard.
	Table string

	// Adapter provides the resource lookup, create and update capabilities.
	Adapter Adapter

	// Committer persists a row's resulting identifier back into the table.
	// If nil, identifiers are only returned in the plan.
	Committer Committer
}

// record appends an action and updates the counters.
func (p *Plan) record(action Action) {
	p.Actions = append(p.Actions, action)
	switch action.Type {
	case ActionCreate:
		p.Summary.Creates++
	case ActionRecreate:
		p.Summary.Recreates++
	case ActionUpdate:
		p.Summary.Updates++
	}
}
