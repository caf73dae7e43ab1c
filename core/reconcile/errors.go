package reconcile

import "errors"

var (
	// ErrResourceNotFound reports that an external resource does not exist (anymore).
	// It is recoverable: the reconciler recreates the resource.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTransientUnavailable reports that the external service could not answer.
	// It aborts the remainder of a pass; re-running the pass is the remedy.
	ErrTransientUnavailable = errors.New("resource service temporarily unavailable")

	// ErrConfigMissing reports that a required stored identifier (calendar, form) is absent.
	ErrConfigMissing = errors.New("configuration missing")
)

// IsTransient reports whether err aborts a pass and should be retried by re-running it.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientUnavailable)
}
