package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"session-sync/core/reconcile"
)

// Calendar is a calendar service holding one event per session.
// Methods wrap provider errors with the error kinds of core/reconcile.
type Calendar interface {
	// Name returns the provider name.
	Name() string
	// CalendarExists reports whether the calendar is still reachable.
	CalendarExists(ctx context.Context, calendarID string) (bool, error)
	// CreateCalendar provides a calendar for the sessions and returns its id.
	CreateCalendar(ctx context.Context, name string, loc *time.Location) (string, error)
	// GetEvent returns an event, or an error wrapping reconcile.ErrResourceNotFound.
	GetEvent(ctx context.Context, calendarID, eventID string) (*reconcile.Resource, error)
	// InsertEvent creates an event.
	InsertEvent(ctx context.Context, calendarID string, payload reconcile.Payload) (*reconcile.Resource, error)
	// UpdateEvent overwrites the title, time and location of an event, keeping its guests.
	UpdateEvent(ctx context.Context, calendarID, eventID string, payload reconcile.Payload) error
	// AddGuest adds an attendee to an event. Adding an existing attendee is a no-op.
	AddGuest(ctx context.Context, calendarID, eventID, email string) error
	// Link returns a URL where the calendar can be viewed or subscribed to.
	Link(calendarID string) string
}

// eventAdapter binds a Calendar to one calendar id for a reconciliation pass.
// An empty calendar id (dry run before the calendar exists) resolves nothing.
type eventAdapter struct {
	cal        Calendar
	calendarID string
}

func (a *eventAdapter) Name() string {
	return a.cal.Name()
}

func (a *eventAdapter) Resolve(ctx context.Context, id string) (*reconcile.Resource, error) {
	if a.calendarID == "" {
		return nil, nil
	}
	res, err := a.cal.GetEvent(ctx, a.calendarID, id)
	if errors.Is(err, reconcile.ErrResourceNotFound) {
		return nil, nil
	}
	return res, err
}

func (a *eventAdapter) Create(ctx context.Context, payload reconcile.Payload) (*reconcile.Resource, error) {
	if a.calendarID == "" {
		return nil, fmt.Errorf("calendar: %w", reconcile.ErrConfigMissing)
	}
	return a.cal.InsertEvent(ctx, a.calendarID, payload)
}

func (a *eventAdapter) Update(ctx context.Context, res *reconcile.Resource, payload reconcile.Payload) error {
	return a.cal.UpdateEvent(ctx, a.calendarID, res.ID, payload)
}
