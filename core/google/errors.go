package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"session-sync/core/reconcile"

	"google.golang.org/api/googleapi"
)

// ClassifyError wraps a Google API error with the matching error kind.
// 404 and 410 become reconcile.ErrResourceNotFound; 429, 5xx and network failures become
// reconcile.ErrTransientUnavailable. Other errors are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound, apiErr.Code == http.StatusGone:
			return fmt.Errorf("%w: %w", reconcile.ErrResourceNotFound, err)
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
			return fmt.Errorf("%w: %w", reconcile.ErrTransientUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", reconcile.ErrTransientUnavailable, err)
	}
	return err
}
