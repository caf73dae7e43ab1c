package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"session-sync/core/mail"
	"session-sync/core/reconcile"
	"session-sync/core/registry"
	"session-sync/core/storage/mocks"
	"session-sync/core/table"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCalendar keeps calendars and events in memory.
type fakeCalendar struct {
	mu        sync.Mutex
	calendars map[string]map[string]*reconcile.Resource
	next      int

	createdCalendars int
	inserts          int
	updates          int

	insertErr func(p reconcile.Payload) error
	guestErr  error
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{calendars: make(map[string]map[string]*reconcile.Resource)}
}

func (f *fakeCalendar) Name() string { return "fake" }

func (f *fakeCalendar) CalendarExists(ctx context.Context, calendarID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.calendars[calendarID]
	return ok, nil
}

func (f *fakeCalendar) CreateCalendar(ctx context.Context, name string, loc *time.Location) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCalendars++
	id := fmt.Sprintf("cal-%d", f.createdCalendars)
	f.calendars[id] = make(map[string]*reconcile.Resource)
	return id, nil
}

func (f *fakeCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (*reconcile.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.calendars[calendarID][eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, reconcile.ErrResourceNotFound)
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, calendarID string, p reconcile.Payload) (*reconcile.Resource, error) {
	if f.insertErr != nil {
		if err := f.insertErr(p); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.inserts++
	res := &reconcile.Resource{ID: fmt.Sprintf("evt-%d", f.next), Title: p.Title, Start: p.Start, End: p.End, Location: p.Location}
	f.calendars[calendarID][res.ID] = res
	cp := *res
	return &cp, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, p reconcile.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.calendars[calendarID][eventID]
	if !ok {
		return fmt.Errorf("event %s: %w", eventID, reconcile.ErrResourceNotFound)
	}
	f.updates++
	ev.Title, ev.Start, ev.End, ev.Location = p.Title, p.Start, p.End, p.Location
	return nil
}

func (f *fakeCalendar) AddGuest(ctx context.Context, calendarID, eventID, email string) error {
	if f.guestErr != nil {
		return f.guestErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.calendars[calendarID][eventID]
	if !ok {
		return fmt.Errorf("event %s: %w", eventID, reconcile.ErrResourceNotFound)
	}
	for _, g := range ev.Guests {
		if strings.EqualFold(g, email) {
			return nil
		}
	}
	ev.Guests = append(ev.Guests, email)
	return nil
}

func (f *fakeCalendar) Link(calendarID string) string {
	return "https://calendar.example.com/" + calendarID
}

func (f *fakeCalendar) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, events := range f.calendars {
		n += len(events)
	}
	return n
}

func (f *fakeCalendar) guestsOf(title string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, events := range f.calendars {
		for _, ev := range events {
			if ev.Title == title {
				return ev.Guests
			}
		}
	}
	return nil
}

// fakeForms keeps forms in memory. Responses filters with second precision like the
// real service, so callers must drop what they already processed.
type fakeForms struct {
	forms     map[string][]FormItem
	responses []FormResponse
	next      int
	deleted   int
}

func newFakeForms() *fakeForms {
	return &fakeForms{forms: make(map[string][]FormItem)}
}

func (f *fakeForms) FormExists(ctx context.Context, formID string) (bool, error) {
	_, ok := f.forms[formID]
	return ok, nil
}

func (f *fakeForms) CreateForm(ctx context.Context, title string) (string, error) {
	f.next++
	id := fmt.Sprintf("form-%d", f.next)
	f.forms[id] = nil
	return id, nil
}

func (f *fakeForms) ListItems(ctx context.Context, formID string) ([]FormItem, error) {
	items, ok := f.forms[formID]
	if !ok {
		return nil, fmt.Errorf("form %s: %w", formID, reconcile.ErrResourceNotFound)
	}
	return append([]FormItem(nil), items...), nil
}

func (f *fakeForms) DeleteItems(ctx context.Context, formID string, count int) error {
	f.deleted += count
	f.forms[formID] = f.forms[formID][count:]
	return nil
}

func (f *fakeForms) AddItems(ctx context.Context, formID string, items []FormItem) error {
	f.forms[formID] = append(f.forms[formID], items...)
	return nil
}

func (f *fakeForms) Responses(ctx context.Context, formID string, after time.Time) ([]FormResponse, error) {
	var out []FormResponse
	for _, r := range f.responses {
		if after.IsZero() || r.Submitted.After(after.Truncate(time.Second)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeForms) Link(formID string) string {
	return "https://forms.example.com/" + formID
}

type fixture struct {
	table    *table.Memory
	calendar *fakeCalendar
	forms    *fakeForms
	registry *registry.Memory
	outbox   *mail.Outbox
	storage  *mocks.Client
}

func sessionSheet() [][]any {
	return [][]any{
		{"Title", "Date", "Start", "End", "Location", "Event ID"},
		{"Keynote", "2024-03-04", "09:00", "10:00", "Hall A", ""},
		{"Go Internals", "2024-03-04", "10:00", "11:00", "Room 1", ""},
		{"Testing at Scale", "2024-03-04", "10:00", "11:00", "Room 2", ""},
		{"", "", "", "", "", ""},
		{"Closing", "2024-03-05", "16:00", "17:00", "Hall A"},
	}
}

func testConfig() Config {
	return Config{
		Enabled:             true,
		Sheet:               "Sessions",
		TimeZone:            "UTC",
		DateLayout:          "Mon Jan 2",
		TimeLayout:          "15:04",
		FormTitle:           "Registration",
		ConfirmationSubject: "Your sessions",
		ExportKey:           "exports/sessions.ics",
	}
}

func newTestService(t *testing.T) (*Service, *fixture) {
	t.Helper()
	fx := &fixture{
		table:    table.NewMemory(),
		calendar: newFakeCalendar(),
		forms:    newFakeForms(),
		registry: registry.NewMemory(),
		outbox:   mail.NewOutbox(),
		storage:  new(mocks.Client),
	}
	fx.table.Put("Sessions", sessionSheet())

	svc, err := NewService(testConfig(), CalendarConfig{Provider: "fake", Name: "Conference"}, Dependencies{
		Table:    fx.table,
		Calendar: fx.calendar,
		Forms:    fx.forms,
		Registry: fx.registry,
		Mail:     fx.outbox,
		Storage:  fx.storage,
		Bucket:   "exports",
	}, zap.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, fx
}

// eventIDs returns the Event ID column of the sessions sheet, keyed by row position.
func (fx *fixture) eventIDs(t *testing.T) map[int]string {
	t.Helper()
	rows, err := fx.table.ReadRows(context.Background(), "Sessions")
	require.NoError(t, err)
	ids := make(map[int]string)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if id, ok := table.Cell(row, ColEventID).(string); ok && id != "" {
			ids[i] = id
		}
	}
	return ids
}
