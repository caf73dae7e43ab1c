package reconcile

import "context"

// Adapter defines the capabilities a reconciliation pass needs from an external
// resource service (e.g., a Google or CalDAV calendar).
//
// There is deliberately no delete capability: a pass never removes a resource, even
// when its originating row has disappeared from the table.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "google", "caldav").
	Name() string

	// Resolve looks up a resource by its stored identifier.
	// It returns (nil, nil) when the resource no longer exists. Implementations may
	// instead return an error wrapping ErrResourceNotFound; both are treated alike.
	// Errors wrapping ErrTransientUnavailable abort the pass.
	Resolve(ctx context.Context, id string) (*Resource, error)

	// Create creates a new resource from the payload and returns it with its identifier.
	Create(ctx context.Context, payload Payload) (*Resource, error)

	// Update overwrites the mutable fields of an existing resource.
	// The identifier of the resource is left unchanged.
	Update(ctx context.Context, resource *Resource, payload Payload) error
}

// Committer persists a row's identifier into the table at the row's position.
// It is called once per row right after the row's external call succeeds.
type Committer interface {
	CommitID(ctx context.Context, row Row) error
}

// CommitFunc adapts a plain function to the Committer interface.
type CommitFunc func(ctx context.Context, row Row) error

// CommitID calls f(ctx, row).
func (f CommitFunc) CommitID(ctx context.Context, row Row) error {
	return f(ctx, row)
}
