package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"session-sync/core/reconcile"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar is a Calendar backed by the Google Calendar API.
type GoogleCalendar struct {
	service  *calendar.Service
	classify func(error) error
}

// NewGoogleCalendar creates the Google Calendar provider. classify maps API errors to
// error kinds; it may be nil.
func NewGoogleCalendar(ctx context.Context, classify func(error) error, opts ...option.ClientOption) (*GoogleCalendar, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if classify == nil {
		classify = func(err error) error { return err }
	}
	return &GoogleCalendar{service: service, classify: classify}, nil
}

func (g *GoogleCalendar) Name() string {
	return ProviderGoogle
}

func (g *GoogleCalendar) CalendarExists(ctx context.Context, calendarID string) (bool, error) {
	_, err := g.service.Calendars.Get(calendarID).Context(ctx).Do()
	if err == nil {
		return true, nil
	}
	err = g.classify(err)
	if errors.Is(err, reconcile.ErrResourceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get calendar: %w", err)
}

func (g *GoogleCalendar) CreateCalendar(ctx context.Context, name string, loc *time.Location) (string, error) {
	cal := &calendar.Calendar{Summary: name}
	if loc != nil && loc != time.Local {
		cal.TimeZone = loc.String()
	}
	created, err := g.service.Calendars.Insert(cal).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar: %w", g.classify(err))
	}
	return created.Id, nil
}

func (g *GoogleCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (*reconcile.Resource, error) {
	item, err := g.service.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", g.classify(err))
	}
	// Deleted events stay readable with status "cancelled".
	if item.Status == "cancelled" {
		return nil, fmt.Errorf("event %s is cancelled: %w", eventID, reconcile.ErrResourceNotFound)
	}
	return fromGoogleEvent(item), nil
}

func (g *GoogleCalendar) InsertEvent(ctx context.Context, calendarID string, payload reconcile.Payload) (*reconcile.Resource, error) {
	created, err := g.service.Events.Insert(calendarID, toGoogleEvent(payload)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", g.classify(err))
	}
	return fromGoogleEvent(created), nil
}

// UpdateEvent patches only the mutable fields so attendees survive.
func (g *GoogleCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, payload reconcile.Payload) error {
	_, err := g.service.Events.Patch(calendarID, eventID, toGoogleEvent(payload)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update event: %w", g.classify(err))
	}
	return nil
}

func (g *GoogleCalendar) AddGuest(ctx context.Context, calendarID, eventID, email string) error {
	item, err := g.service.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get event: %w", g.classify(err))
	}

	attendees, added := addAttendee(item.Attendees, email)
	if !added {
		return nil
	}

	_, err = g.service.Events.Patch(calendarID, eventID, &calendar.Event{Attendees: attendees}).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to add guest: %w", g.classify(err))
	}
	return nil
}

func (g *GoogleCalendar) Link(calendarID string) string {
	return "https://calendar.google.com/calendar/embed?src=" + url.QueryEscape(calendarID)
}

func addAttendee(attendees []*calendar.EventAttendee, email string) ([]*calendar.EventAttendee, bool) {
	for _, a := range attendees {
		if strings.EqualFold(a.Email, email) {
			return attendees, false
		}
	}
	return append(attendees, &calendar.EventAttendee{Email: email}), true
}

func toGoogleEvent(p reconcile.Payload) *calendar.Event {
	return &calendar.Event{
		Summary:  p.Title,
		Location: p.Location,
		Start:    &calendar.EventDateTime{DateTime: p.Start.Format(time.RFC3339)},
		End:      &calendar.EventDateTime{DateTime: p.End.Format(time.RFC3339)},
	}
}

func fromGoogleEvent(item *calendar.Event) *reconcile.Resource {
	res := &reconcile.Resource{
		ID:       item.Id,
		Title:    item.Summary,
		Location: item.Location,
	}
	if item.Start != nil {
		res.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
	}
	if item.End != nil {
		res.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
	}
	for _, a := range item.Attendees {
		res.Guests = append(res.Guests, a.Email)
	}
	return res
}
