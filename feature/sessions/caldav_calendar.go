package sessions

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"session-sync/core/reconcile"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

// CalDAVCalendar is a Calendar on a CalDAV server. Calendar ids are collection paths.
//
// CalDAV offers no portable way to create collections, so CreateCalendar adopts the
// existing calendar carrying the configured name.
type CalDAVCalendar struct {
	client  *caldav.Client
	baseURL *url.URL
	loc     *time.Location
	now     func() time.Time
}

// NewCalDAVCalendar creates the CalDAV provider.
func NewCalDAVCalendar(cfg CalendarConfig, loc *time.Location) (*CalDAVCalendar, error) {
	baseURL, err := url.Parse(cfg.CalDAVURL)
	if err != nil || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid CalDAV server URL %q", cfg.CalDAVURL)
	}

	var httpClient webdav.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	if cfg.Username != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, cfg.Username, cfg.Password)
	}

	client, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CalDAVCalendar{client: client, baseURL: baseURL, loc: loc, now: time.Now}, nil
}

func (c *CalDAVCalendar) Name() string {
	return ProviderCalDAV
}

func (c *CalDAVCalendar) CalendarExists(ctx context.Context, calendarID string) (bool, error) {
	calendars, err := c.client.FindCalendars(ctx, parentCollection(calendarID))
	if err != nil {
		err = classifyDAVError(err)
		if errors.Is(err, reconcile.ErrResourceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find calendars: %w", err)
	}
	for _, cal := range calendars {
		if samePath(cal.Path, calendarID) {
			return true, nil
		}
	}
	return false, nil
}

func (c *CalDAVCalendar) CreateCalendar(ctx context.Context, name string, loc *time.Location) (string, error) {
	principal, err := c.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", classifyDAVError(err))
	}
	homeSet, err := c.client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home: %w", classifyDAVError(err))
	}
	calendars, err := c.client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", classifyDAVError(err))
	}
	for _, cal := range calendars {
		if strings.EqualFold(cal.Name, name) {
			return cal.Path, nil
		}
	}
	return "", fmt.Errorf("no CalDAV calendar named %q in %s: create it on the server first", name, homeSet)
}

func (c *CalDAVCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (*reconcile.Resource, error) {
	comp, _, err := c.getEvent(ctx, calendarID, eventID)
	if err != nil {
		return nil, err
	}
	return resourceFromICal(comp, c.loc), nil
}

func (c *CalDAVCalendar) InsertEvent(ctx context.Context, calendarID string, payload reconcile.Payload) (*reconcile.Resource, error) {
	uid := uuid.NewString()
	cal := newICalCalendar("")
	cal.Children = append(cal.Children, newICalEvent(uid, payload, c.now()).Component)

	if _, err := c.client.PutCalendarObject(ctx, eventPath(calendarID, uid), cal); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", classifyDAVError(err))
	}
	return &reconcile.Resource{
		ID:       uid,
		Title:    payload.Title,
		Start:    payload.Start,
		End:      payload.End,
		Location: payload.Location,
	}, nil
}

func (c *CalDAVCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, payload reconcile.Payload) error {
	existing, _, err := c.getEvent(ctx, calendarID, eventID)
	if err != nil {
		return err
	}

	cal := newICalCalendar("")
	event := newICalEvent(eventID, payload, c.now())
	for _, attendee := range existing.Props.Values(ical.PropAttendee) {
		attendee := attendee
		event.Props.Add(&attendee)
	}
	cal.Children = append(cal.Children, event.Component)

	if _, err := c.client.PutCalendarObject(ctx, eventPath(calendarID, eventID), cal); err != nil {
		return fmt.Errorf("failed to update event: %w", classifyDAVError(err))
	}
	return nil
}

func (c *CalDAVCalendar) AddGuest(ctx context.Context, calendarID, eventID, email string) error {
	comp, cal, err := c.getEvent(ctx, calendarID, eventID)
	if err != nil {
		return err
	}
	if !addICalAttendee(comp, email) {
		return nil
	}
	if _, err := c.client.PutCalendarObject(ctx, eventPath(calendarID, eventID), cal); err != nil {
		return fmt.Errorf("failed to add guest: %w", classifyDAVError(err))
	}
	return nil
}

func (c *CalDAVCalendar) Link(calendarID string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: calendarID}).String()
}

func (c *CalDAVCalendar) getEvent(ctx context.Context, calendarID, eventID string) (*ical.Component, *ical.Calendar, error) {
	obj, err := c.client.GetCalendarObject(ctx, eventPath(calendarID, eventID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get event: %w", classifyDAVError(err))
	}
	comp := eventComponent(obj.Data)
	if comp == nil {
		return nil, nil, fmt.Errorf("event %s has no VEVENT: %w", eventID, reconcile.ErrResourceNotFound)
	}
	return comp, obj.Data, nil
}

func eventPath(calendarID, eventID string) string {
	return strings.TrimRight(calendarID, "/") + "/" + eventID + ".ics"
}

// parentCollection returns the collection holding a calendar, with the trailing slash
// servers use for collection paths.
func parentCollection(calendarID string) string {
	return path.Dir(strings.TrimRight(calendarID, "/")) + "/"
}

func samePath(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}

// classifyDAVError maps CalDAV failures to error kinds, with the same status rules as
// google.ClassifyError. Only the response status counts, never the response body.
func classifyDAVError(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", reconcile.ErrTransientUnavailable, err)
	}

	code, ok := davStatus(err)
	switch {
	case !ok:
		return err
	case code == http.StatusNotFound, code == http.StatusGone:
		return fmt.Errorf("%w: %w", reconcile.ErrResourceNotFound, err)
	case code == http.StatusTooManyRequests, code >= 500:
		return fmt.Errorf("%w: %w", reconcile.ErrTransientUnavailable, err)
	}
	return err
}

// davStatus returns the HTTP status carried by a go-webdav error. The library keeps its
// HTTPError type internal, but the message always starts with "<code> <status text>".
func davStatus(err error) (int, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		msg := err.Error()
		var code int
		if _, scanErr := fmt.Sscanf(msg, "%d", &code); scanErr != nil {
			continue
		}
		text := http.StatusText(code)
		if text != "" && strings.HasPrefix(msg, fmt.Sprintf("%d %s", code, text)) {
			return code, true
		}
	}
	return 0, false
}
