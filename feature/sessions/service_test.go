package sessions

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"session-sync/core/reconcile"
	"session-sync/core/registry"
	"session-sync/core/server"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSync_CreatesCalendarAndEvents(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	result, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, "cal-1", result.CalendarID)
	assert.Equal(t, 4, result.Plan.Summary.Creates)
	assert.Equal(t, 4, fx.calendar.eventCount())

	id, ok, err := fx.registry.Get(ctx, registry.KeyCalendarID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cal-1", id)

	ids := fx.eventIDs(t)
	assert.Len(t, ids, 4)
	for _, pos := range []int{1, 2, 3, 5} {
		assert.NotEmpty(t, ids[pos], "row %d has an event id", pos)
	}
}

func TestSync_SecondRunOnlyUpdates(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)
	first := fx.eventIDs(t)

	result, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Plan.Summary.Creates)
	assert.Equal(t, 4, result.Plan.Summary.Updates)
	assert.Equal(t, 1, fx.calendar.createdCalendars)
	assert.Equal(t, 4, fx.calendar.inserts)
	assert.Equal(t, first, fx.eventIDs(t))
}

func TestSync_EditedRowUpdatesEvent(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	require.NoError(t, fx.table.WriteRange(ctx, "Sessions", 1, ColLocation, [][]any{{"Main Stage"}}))
	_, err = svc.Sync(ctx, false)
	require.NoError(t, err)

	id := fx.eventIDs(t)[1]
	ev, err := fx.calendar.GetEvent(ctx, "cal-1", id)
	require.NoError(t, err)
	assert.Equal(t, "Main Stage", ev.Location)
}

func TestSync_DeletedEventIsRecreated(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)
	stale := fx.eventIDs(t)[2]
	delete(fx.calendar.calendars["cal-1"], stale)

	result, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Plan.Summary.Recreates)
	assert.NotEqual(t, stale, fx.eventIDs(t)[2])
}

func TestSync_MissingCalendarIsReplaced(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()
	require.NoError(t, fx.registry.Set(ctx, registry.KeyCalendarID, "cal-gone"))

	result, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, "cal-1", result.CalendarID)
	id, _, _ := fx.registry.Get(ctx, registry.KeyCalendarID)
	assert.Equal(t, "cal-1", id)
}

func TestSync_DryRun(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	result, err := svc.Sync(ctx, true)
	require.NoError(t, err)

	assert.True(t, result.Plan.DryRun)
	assert.Equal(t, 4, result.Plan.Summary.Creates)
	assert.Zero(t, fx.calendar.createdCalendars)
	assert.Zero(t, fx.table.Writes())
	all, err := fx.registry.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSync_InvalidRowAbortsBeforeAnyCall(t *testing.T) {
	svc, fx := newTestService(t)
	sheet := sessionSheet()
	sheet[3][ColDate] = "someday"
	fx.table.Put("Sessions", sheet)

	_, err := svc.Sync(context.Background(), false)
	assert.ErrorIs(t, err, ErrInvalidRow)
	assert.Zero(t, fx.calendar.createdCalendars)
	assert.Zero(t, fx.calendar.inserts)
}

func TestSync_TransientFailureKeepsProgress(t *testing.T) {
	svc, fx := newTestService(t)
	fx.calendar.insertErr = func(p reconcile.Payload) error {
		if p.Title == "Testing at Scale" {
			return fmt.Errorf("insert: %w", reconcile.ErrTransientUnavailable)
		}
		return nil
	}

	result, err := svc.Sync(context.Background(), false)
	require.Error(t, err)
	assert.True(t, reconcile.IsTransient(err))
	assert.Equal(t, 2, result.Pending)

	ids := fx.eventIDs(t)
	assert.Len(t, ids, 2)
	assert.NotEmpty(t, ids[1])
	assert.NotEmpty(t, ids[2])

	fx.calendar.insertErr = nil
	result, err = svc.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, result.Pending)
	assert.Len(t, fx.eventIDs(t), 4)
	assert.Equal(t, 4, fx.calendar.inserts)
}

func TestSync_JoinedPassReportsCalendar(t *testing.T) {
	svc, fx := newTestService(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fx.calendar.insertErr = func(p reconcile.Payload) error {
		once.Do(func() {
			close(entered)
			<-release
		})
		return nil
	}

	results := make([]*SyncResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.Sync(context.Background(), false)
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.Sync(context.Background(), false)
	}()

	// Give the second caller time to join before the first pass finishes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Shared)
		assert.Equal(t, "cal-1", results[i].CalendarID)
	}
	assert.Equal(t, 4, fx.calendar.inserts)
}

func TestRebuildForm(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	result, err := svc.RebuildForm(ctx)
	require.NoError(t, err)

	assert.Equal(t, "form-1", result.FormID)
	assert.Equal(t, "https://forms.example.com/form-1", result.Link)
	assert.Equal(t, 2, result.Sections)
	assert.Equal(t, 3, result.Questions)
	assert.Zero(t, result.Deleted)

	// A rebuild replaces the derived items instead of appending to them.
	fx.table.Put("Sessions", sessionSheet()[:2])
	result, err = svc.RebuildForm(ctx)
	require.NoError(t, err)

	assert.Equal(t, "form-1", result.FormID)
	assert.Equal(t, 7, result.Deleted)
	items := fx.forms.forms["form-1"]
	require.Len(t, items, 4)
	assert.Equal(t, "Mon Mar 4 09:00", items[3].Title)
}

func TestRebuildForm_WithoutFormService(t *testing.T) {
	svc, _ := newTestService(t)
	svc.deps.Forms = nil

	_, err := svc.RebuildForm(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)
}

func TestLinks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CalendarLink(ctx)
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)
	_, err = svc.FormLink(ctx)
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)

	_, err = svc.Sync(ctx, false)
	require.NoError(t, err)
	_, err = svc.RebuildForm(ctx)
	require.NoError(t, err)

	link, err := svc.CalendarLink(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.example.com/cal-1", link)

	link, err = svc.FormLink(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com/form-1", link)
}

func TestReset(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, status)
	assert.Equal(t, 4, fx.calendar.eventCount(), "reset never deletes external resources")

	// The next sync provisions a new calendar and recreates every event in it.
	result, err := svc.Sync(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "cal-2", result.CalendarID)
	assert.Equal(t, 4, result.Plan.Summary.Recreates)
}

func TestHandleSubmission(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()
	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	reg, err := svc.HandleSubmission(ctx, Submission{
		Name:  "Ada",
		Email: "ada@example.com",
		Answers: map[string]string{
			"Mon Mar 4 10:00": "Testing at Scale",
			"Mon Mar 4 09:00": "No such talk",
			"Someday 12:00":   "Keynote",
		},
	})
	require.NoError(t, err)

	require.Len(t, reg.Sessions, 1)
	assert.Equal(t, "Testing at Scale", reg.Sessions[0].Title)
	assert.True(t, reg.Notified)
	assert.Equal(t, []string{"ada@example.com"}, fx.calendar.guestsOf("Testing at Scale"))
	assert.Empty(t, fx.calendar.guestsOf("Keynote"))
	assert.Empty(t, fx.calendar.guestsOf("Go Internals"))

	msgs := fx.outbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"ada@example.com"}, msgs[0].To)
	assert.Equal(t, "Your sessions", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "Hello Ada,")
	assert.Contains(t, msgs[0].Body, "- Mon Mar 4 10:00-11:00: Testing at Scale (Room 2)")
}

func TestHandleSubmission_NothingMatched(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()
	_, err := svc.Sync(ctx, false)
	require.NoError(t, err)

	reg, err := svc.HandleSubmission(ctx, Submission{Email: "ada@example.com", Answers: map[string]string{"x": "y"}})
	require.NoError(t, err)
	assert.Empty(t, reg.Sessions)
	assert.False(t, reg.Notified)
	assert.Empty(t, fx.outbox.Messages())
}

func TestHandleSubmission_Errors(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.HandleSubmission(ctx, Submission{Email: "  "})
	assert.ErrorIs(t, err, server.ErrBadRequest)

	_, err = svc.HandleSubmission(ctx, Submission{Email: "not-an-address"})
	assert.ErrorIs(t, err, server.ErrBadRequest)

	_, err = svc.HandleSubmission(ctx, Submission{Email: "ada@example.com"})
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)

	_, err = svc.Sync(ctx, false)
	require.NoError(t, err)
	fx.calendar.guestErr = fmt.Errorf("patch: %w", reconcile.ErrTransientUnavailable)
	_, err = svc.HandleSubmission(ctx, Submission{Email: "ada@example.com", Answers: map[string]string{"Mon Mar 4 09:00": "Keynote"}})
	assert.ErrorIs(t, err, reconcile.ErrTransientUnavailable)
	assert.Empty(t, fx.outbox.Messages())
}

func TestPollResponses(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.PollResponses(ctx)
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)

	_, err = svc.Sync(ctx, false)
	require.NoError(t, err)
	_, err = svc.RebuildForm(ctx)
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 200, time.UTC)
	fx.forms.responses = []FormResponse{
		{ID: "r2", Submitted: t0.Add(time.Minute), Answers: map[string]string{
			QuestionName: "Grace", QuestionEmail: "grace@example.com", "Tue Mar 5 16:00": "Closing",
		}},
		{ID: "r1", Submitted: t0, Email: "ada@example.com", Answers: map[string]string{
			QuestionName: "Ada", "Mon Mar 4 09:00": "Keynote",
		}},
		{ID: "r3", Submitted: t0.Add(2 * time.Minute), Answers: map[string]string{QuestionName: "Anonymous"}},
	}

	result, err := svc.PollResponses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, t0.Add(2*time.Minute), result.Cursor)

	assert.Equal(t, []string{"ada@example.com"}, fx.calendar.guestsOf("Keynote"))
	assert.Equal(t, []string{"grace@example.com"}, fx.calendar.guestsOf("Closing"))
	msgs := fx.outbox.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, []string{"ada@example.com"}, msgs[0].To, "oldest response first")

	cursor, ok, err := fx.registry.Get(ctx, registry.KeyFormResponsesCursor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, t0.Add(2*time.Minute).Format(time.RFC3339Nano), cursor)

	result, err = svc.PollResponses(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Len(t, fx.outbox.Messages(), 2)
}

func TestExportICS(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	var uploaded string
	fx.storage.On("BucketExists", ctx, "exports").Return(true, nil)
	fx.storage.On("PutObject", ctx, "exports", "exports/sessions.ics", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			uploaded = string(data)
		}).
		Return(minio.UploadInfo{Key: "exports/sessions.ics", Size: 1024}, nil)

	result, err := svc.ExportICS(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Events)
	assert.Equal(t, int64(1024), result.Size)
	assert.Equal(t, 4, strings.Count(uploaded, "BEGIN:VEVENT"))
	assert.Contains(t, uploaded, "SUMMARY:Go Internals")
	assert.Contains(t, uploaded, "X-WR-CALNAME:Conference")
	fx.storage.AssertExpectations(t)
}

func TestExportICS_WithoutStorage(t *testing.T) {
	svc, _ := newTestService(t)
	svc.deps.Storage = nil

	_, err := svc.ExportICS(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)
	_, err = svc.ExportedICS(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrConfigMissing)
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(testConfig(), CalendarConfig{}, Dependencies{}, nil)
	assert.Error(t, err)

	_, fx := newTestService(t)
	cfg := testConfig()
	cfg.TimeZone = "Mars/Olympus"
	_, err = NewService(cfg, CalendarConfig{}, Dependencies{
		Table: fx.table, Calendar: fx.calendar, Registry: fx.registry, Mail: fx.outbox,
	}, nil)
	assert.Error(t, err)
}
