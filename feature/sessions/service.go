package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"session-sync/core/mail"
	"session-sync/core/reconcile"
	"session-sync/core/registry"
	"session-sync/core/server"
	"session-sync/core/storage"
	"session-sync/core/table"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Dependencies are the external capabilities the sessions service uses.
// Forms and Storage are optional; the operations needing them report
// reconcile.ErrConfigMissing when they are nil.
type Dependencies struct {
	Table    table.Store
	Calendar Calendar
	Forms    Forms
	Registry registry.Registry
	Mail     mail.Sender
	Storage  storage.Client
	Bucket   string
}

// Service implements the sessions operations.
type Service struct {
	cfg      Config
	calCfg   CalendarConfig
	deps     Dependencies
	loc      *time.Location
	slots    reconcile.SlotFormat
	logger   *zap.Logger
	now      func() time.Time
	formPass singleflight.Group
}

// NewService creates a sessions service.
func NewService(cfg Config, calCfg CalendarConfig, deps Dependencies, logger *zap.Logger) (*Service, error) {
	if deps.Table == nil || deps.Calendar == nil || deps.Registry == nil || deps.Mail == nil {
		return nil, fmt.Errorf("sessions: table, calendar, registry and mail are required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		calCfg: calCfg,
		deps:   deps,
		loc:    loc,
		slots:  cfg.SlotFormat(loc),
		logger: logger.With(zap.String("feature", "sessions")),
		now:    time.Now,
	}, nil
}

// SyncResult is the outcome of a synchronization pass.
type SyncResult struct {
	Plan       *reconcile.Plan `json:"plan"`
	Shared     bool            `json:"shared"`
	CalendarID string          `json:"calendar_id,omitempty"`
	// Pending counts rows still without an event id after an applied pass.
	Pending int `json:"pending"`
}

// Sync reconciles every session row with a calendar event and writes new event ids
// back into the sheet, one row at a time. A dry run only resolves stored ids.
func (s *Service) Sync(ctx context.Context, dryRun bool) (*SyncResult, error) {
	adapter := &eventAdapter{cal: s.deps.Calendar}
	spec := &reconcile.Spec{
		Table:     s.cfg.Sheet,
		Adapter:   adapter,
		Committer: reconcile.CommitFunc(s.commitEventID),
	}

	load := func(ctx context.Context) ([]reconcile.Row, error) {
		rows, err := s.loadRows(ctx)
		if err != nil {
			return nil, err
		}
		calendarID, err := s.ensureCalendar(ctx, dryRun)
		if err != nil {
			return nil, err
		}
		adapter.calendarID = calendarID
		return rows, nil
	}

	plan, shared, err := reconcile.ReconcileTable(ctx, spec, load, reconcile.Options{DryRun: dryRun})
	result := &SyncResult{Plan: plan, Shared: shared, CalendarID: adapter.calendarID}
	if shared && result.CalendarID == "" && !dryRun {
		// The pass ran with the leader's adapter; an applied pass stores its calendar.
		if id, ok, getErr := s.deps.Registry.Get(ctx, registry.KeyCalendarID); getErr == nil && ok {
			result.CalendarID = id
		}
	}
	if plan != nil && !dryRun {
		result.Pending = len(plan.Pending())
	}
	if err != nil {
		s.logger.Error("Session sync failed",
			zap.Bool("dry_run", dryRun),
			zap.Int("pending", result.Pending),
			zap.Error(err),
		)
		return result, err
	}

	s.logger.Info("Session sync completed",
		zap.Bool("dry_run", dryRun),
		zap.Bool("shared", shared),
		zap.Int("rows", plan.Summary.TotalRows),
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("recreates", plan.Summary.Recreates),
		zap.Int("updates", plan.Summary.Updates),
	)
	return result, nil
}

// FormResult is the outcome of a form rebuild.
type FormResult struct {
	FormID    string `json:"form_id"`
	Link      string `json:"link"`
	Deleted   int    `json:"deleted"`
	Sections  int    `json:"sections"`
	Questions int    `json:"questions"`
}

// RebuildForm replaces every item of the registration form with items derived from
// the current sessions. Concurrent calls share one rebuild.
func (s *Service) RebuildForm(ctx context.Context) (*FormResult, error) {
	if s.deps.Forms == nil {
		return nil, fmt.Errorf("form service: %w", reconcile.ErrConfigMissing)
	}
	v, err, _ := s.formPass.Do("rebuild", func() (any, error) {
		return s.rebuildForm(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*FormResult), nil
}

func (s *Service) rebuildForm(ctx context.Context) (*FormResult, error) {
	rows, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	formID, err := s.ensureForm(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.deps.Forms.ListItems(ctx, formID)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Forms.DeleteItems(ctx, formID, len(existing)); err != nil {
		return nil, err
	}

	items := BuildFormItems(rows, s.slots)
	if err := s.deps.Forms.AddItems(ctx, formID, items); err != nil {
		return nil, err
	}

	result := &FormResult{FormID: formID, Link: s.deps.Forms.Link(formID), Deleted: len(existing)}
	for _, item := range items {
		switch item.Kind {
		case ItemSection:
			result.Sections++
		case ItemChoice:
			result.Questions++
		}
	}
	s.logger.Info("Registration form rebuilt",
		zap.String("form_id", formID),
		zap.Int("deleted", result.Deleted),
		zap.Int("sections", result.Sections),
		zap.Int("questions", result.Questions),
	)
	return result, nil
}

// CalendarLink returns the URL of the sessions calendar.
func (s *Service) CalendarLink(ctx context.Context) (string, error) {
	id, err := s.requireID(ctx, registry.KeyCalendarID)
	if err != nil {
		return "", err
	}
	return s.deps.Calendar.Link(id), nil
}

// FormLink returns the URL of the registration form.
func (s *Service) FormLink(ctx context.Context) (string, error) {
	if s.deps.Forms == nil {
		return "", fmt.Errorf("form service: %w", reconcile.ErrConfigMissing)
	}
	id, err := s.requireID(ctx, registry.KeyFormID)
	if err != nil {
		return "", err
	}
	return s.deps.Forms.Link(id), nil
}

// Reset forgets every stored identifier. External resources are left untouched; the
// next sync and form rebuild create fresh ones.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.deps.Registry.Clear(ctx); err != nil {
		return fmt.Errorf("failed to reset registry: %w", err)
	}
	s.logger.Warn("Registry cleared")
	return nil
}

// Status returns the stored identifiers.
func (s *Service) Status(ctx context.Context) (map[string]string, error) {
	return s.deps.Registry.All(ctx)
}

// HandleSubmission adds the registrant as a guest to the chosen session of each time
// slot and sends one confirmation email. Answers naming an unknown slot or session
// are ignored.
func (s *Service) HandleSubmission(ctx context.Context, sub Submission) (*Registration, error) {
	email := strings.TrimSpace(sub.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", server.ErrBadRequest)
	}
	if err := (mail.Message{To: []string{email}}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", server.ErrBadRequest, err)
	}

	calendarID, err := s.requireID(ctx, registry.KeyCalendarID)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	reg := &Registration{Email: email}
	for _, group := range reconcile.GroupByTimeSlot(rows, s.slots) {
		choice := strings.TrimSpace(sub.Answers[group.Slot.String()])
		if choice == "" {
			continue
		}
		row, ok := findSession(group, choice)
		if !ok {
			continue
		}
		if row.ResourceID == "" {
			s.logger.Warn("Chosen session has no event yet", zap.String("session", row.Title))
			continue
		}
		if err := s.deps.Calendar.AddGuest(ctx, calendarID, row.ResourceID, email); err != nil {
			return reg, fmt.Errorf("failed to register %s for %s: %w", email, row.Title, err)
		}
		reg.Sessions = append(reg.Sessions, RegisteredSession{
			Slot:     group.Slot.String(),
			Title:    row.Title,
			EventID:  row.ResourceID,
			Start:    row.Start,
			End:      row.End,
			Location: row.Location,
		})
	}

	if len(reg.Sessions) == 0 {
		s.logger.Info("Submission matched no session", zap.String("email", email))
		return reg, nil
	}

	msg := mail.Message{
		To:      []string{email},
		Subject: s.cfg.ConfirmationSubject,
		Body:    confirmationBody(sub.Name, reg.Sessions, s.slots),
	}
	if err := s.deps.Mail.Send(ctx, msg); err != nil {
		return reg, fmt.Errorf("failed to send confirmation: %w", err)
	}
	reg.Notified = true

	s.logger.Info("Registration handled", zap.String("email", email), zap.Int("sessions", len(reg.Sessions)))
	return reg, nil
}

// PollResult is the outcome of polling form responses.
type PollResult struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Cursor    time.Time `json:"cursor"`
}

// PollResponses handles every form response newer than the stored cursor, oldest
// first, advancing the cursor after each one.
func (s *Service) PollResponses(ctx context.Context) (*PollResult, error) {
	if s.deps.Forms == nil {
		return nil, fmt.Errorf("form service: %w", reconcile.ErrConfigMissing)
	}
	formID, err := s.requireID(ctx, registry.KeyFormID)
	if err != nil {
		return nil, err
	}

	result := &PollResult{}
	if raw, ok, err := s.deps.Registry.Get(ctx, registry.KeyFormResponsesCursor); err != nil {
		return nil, fmt.Errorf("failed to read cursor: %w", err)
	} else if ok {
		cursor, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.logger.Warn("Ignoring unreadable response cursor", zap.String("cursor", raw))
		} else {
			result.Cursor = cursor
		}
	}

	responses, err := s.deps.Forms.Responses(ctx, formID, result.Cursor)
	if err != nil {
		return result, err
	}
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Submitted.Before(responses[j].Submitted)
	})

	for _, resp := range responses {
		if !resp.Submitted.After(result.Cursor) {
			continue
		}
		_, err := s.HandleSubmission(ctx, submissionFromResponse(resp))
		switch {
		case errors.Is(err, server.ErrBadRequest):
			s.logger.Warn("Skipping invalid response", zap.String("response_id", resp.ID), zap.Error(err))
			result.Skipped++
		case err != nil:
			return result, err
		default:
			result.Processed++
		}

		result.Cursor = resp.Submitted
		if err := s.deps.Registry.Set(ctx, registry.KeyFormResponsesCursor, resp.Submitted.UTC().Format(time.RFC3339Nano)); err != nil {
			return result, fmt.Errorf("failed to store cursor: %w", err)
		}
	}
	return result, nil
}

// ExportResult describes an uploaded iCalendar export.
type ExportResult struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Events int    `json:"events"`
	Size   int64  `json:"size"`
}

// ExportICS renders all sessions as an iCalendar document and uploads it to object storage.
func (s *Service) ExportICS(ctx context.Context) (*ExportResult, error) {
	if s.deps.Storage == nil {
		return nil, fmt.Errorf("object storage: %w", reconcile.ErrConfigMissing)
	}
	rows, err := s.loadRows(ctx)
	if err != nil {
		return nil, err
	}
	data, err := BuildICS(s.calCfg.Name, rows, s.now())
	if err != nil {
		return nil, err
	}
	info, err := storage.Upload(ctx, s.deps.Storage, s.deps.Bucket, s.cfg.ExportKey, data, "text/calendar; charset=utf-8")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sessions exported", zap.String("key", s.cfg.ExportKey), zap.Int("events", len(rows)))
	return &ExportResult{Key: s.cfg.ExportKey, Bucket: s.deps.Bucket, Events: len(rows), Size: info.Size}, nil
}

// ExportedICS returns the last uploaded iCalendar export.
func (s *Service) ExportedICS(ctx context.Context) ([]byte, error) {
	if s.deps.Storage == nil {
		return nil, fmt.Errorf("object storage: %w", reconcile.ErrConfigMissing)
	}
	return storage.Download(ctx, s.deps.Storage, s.deps.Bucket, s.cfg.ExportKey)
}

func (s *Service) loadRows(ctx context.Context) ([]reconcile.Row, error) {
	values, err := s.deps.Table.ReadRows(ctx, s.cfg.Sheet)
	if err != nil {
		return nil, err
	}
	return ParseRows(values, s.loc)
}

func (s *Service) commitEventID(ctx context.Context, row reconcile.Row) error {
	return s.deps.Table.WriteRange(ctx, s.cfg.Sheet, row.Position, ColEventID, [][]any{{row.ResourceID}})
}

// ensureCalendar returns the stored calendar id, creating and storing a calendar when
// none is stored or the stored one is gone. A dry run never creates and may return "".
func (s *Service) ensureCalendar(ctx context.Context, dryRun bool) (string, error) {
	id, ok, err := s.deps.Registry.Get(ctx, registry.KeyCalendarID)
	if err != nil {
		return "", fmt.Errorf("failed to read calendar id: %w", err)
	}
	if ok && id != "" {
		exists, err := s.deps.Calendar.CalendarExists(ctx, id)
		if err != nil {
			return "", err
		}
		if exists {
			return id, nil
		}
		s.logger.Warn("Stored calendar no longer exists", zap.String("calendar_id", id))
	}
	if dryRun {
		return "", nil
	}

	id, err = s.deps.Calendar.CreateCalendar(ctx, s.calCfg.Name, s.loc)
	if err != nil {
		return "", err
	}
	if err := s.deps.Registry.Set(ctx, registry.KeyCalendarID, id); err != nil {
		return "", fmt.Errorf("failed to store calendar id: %w", err)
	}
	s.logger.Info("Calendar provisioned", zap.String("calendar_id", id), zap.String("provider", s.deps.Calendar.Name()))
	return id, nil
}

func (s *Service) ensureForm(ctx context.Context) (string, error) {
	id, ok, err := s.deps.Registry.Get(ctx, registry.KeyFormID)
	if err != nil {
		return "", fmt.Errorf("failed to read form id: %w", err)
	}
	if ok && id != "" {
		exists, err := s.deps.Forms.FormExists(ctx, id)
		if err != nil {
			return "", err
		}
		if exists {
			return id, nil
		}
		s.logger.Warn("Stored form no longer exists", zap.String("form_id", id))
	}

	id, err = s.deps.Forms.CreateForm(ctx, s.cfg.FormTitle)
	if err != nil {
		return "", err
	}
	if err := s.deps.Registry.Set(ctx, registry.KeyFormID, id); err != nil {
		return "", fmt.Errorf("failed to store form id: %w", err)
	}
	s.logger.Info("Form provisioned", zap.String("form_id", id))
	return id, nil
}

func (s *Service) requireID(ctx context.Context, key string) (string, error) {
	id, ok, err := s.deps.Registry.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || id == "" {
		return "", fmt.Errorf("%s: %w", key, reconcile.ErrConfigMissing)
	}
	return id, nil
}

func findSession(group reconcile.SlotGroup, title string) (reconcile.Row, bool) {
	for _, row := range group.Rows {
		if row.Title == title {
			return row, true
		}
	}
	return reconcile.Row{}, false
}

func submissionFromResponse(resp FormResponse) Submission {
	sub := Submission{
		Name:    strings.TrimSpace(resp.Answers[QuestionName]),
		Email:   strings.TrimSpace(resp.Email),
		Answers: make(map[string]string, len(resp.Answers)),
	}
	if sub.Email == "" {
		sub.Email = strings.TrimSpace(resp.Answers[QuestionEmail])
	}
	for title, value := range resp.Answers {
		if title == QuestionName || title == QuestionEmail {
			continue
		}
		sub.Answers[title] = value
	}
	return sub
}

func confirmationBody(name string, sessions []RegisteredSession, f reconcile.SlotFormat) string {
	var sb strings.Builder
	if name != "" {
		fmt.Fprintf(&sb, "Hello %s,\n\n", name)
	} else {
		sb.WriteString("Hello,\n\n")
	}
	sb.WriteString("you are registered for the following sessions:\n\n")
	for _, session := range sessions {
		end := session.End
		if f.Location != nil {
			end = end.In(f.Location)
		}
		fmt.Fprintf(&sb, "- %s-%s: %s", session.Slot, end.Format(f.TimeLayout), session.Title)
		if session.Location != "" {
			fmt.Fprintf(&sb, " (%s)", session.Location)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nCalendar invitations have been added for each session.\n")
	return sb.String()
}
