package sessions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"session-sync/core/reconcile"
	"session-sync/core/table"
	"session-sync/core/utils"
)

// Columns of the sessions sheet.
const (
	ColTitle = iota
	ColDate
	ColStart
	ColEnd
	ColLocation
	ColEventID
)

// Header is the expected header row of the sessions sheet.
var Header = []string{"Title", "Date", "Start", "End", "Location", "Event ID"}

// ErrInvalidRow is returned when a sheet row cannot be parsed.
var ErrInvalidRow = errors.New("invalid session row")

var dateLayouts = []string{"2006-01-02", "2006/01/02", "1/2/2006", "02.01.2006"}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04:05 PM"}

// ParseRows converts sheet values into reconcile rows. Row 0 is the header and is
// skipped, as are rows without a title. The first unparsable row aborts parsing.
func ParseRows(values [][]any, loc *time.Location) ([]reconcile.Row, error) {
	if loc == nil {
		loc = time.UTC
	}

	var rows []reconcile.Row
	for i := 1; i < len(values); i++ {
		raw := values[i]
		title := utils.ToTrimmedString(table.Cell(raw, ColTitle))
		if title == "" {
			continue
		}

		day, err := parseDate(utils.ToTrimmedString(table.Cell(raw, ColDate)), loc)
		if err != nil {
			return nil, fmt.Errorf("%w %d (%s): %v", ErrInvalidRow, i, title, err)
		}
		start, err := parseClock(day, utils.ToTrimmedString(table.Cell(raw, ColStart)))
		if err != nil {
			return nil, fmt.Errorf("%w %d (%s): start: %v", ErrInvalidRow, i, title, err)
		}
		end, err := parseClock(day, utils.ToTrimmedString(table.Cell(raw, ColEnd)))
		if err != nil {
			return nil, fmt.Errorf("%w %d (%s): end: %v", ErrInvalidRow, i, title, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w %d (%s): ends before it starts", ErrInvalidRow, i, title)
		}

		rows = append(rows, reconcile.Row{
			Position:   i,
			Title:      title,
			Start:      start,
			End:        end,
			Location:   utils.ToTrimmedString(table.Cell(raw, ColLocation)),
			ResourceID: utils.ToTrimmedString(table.Cell(raw, ColEventID)),
		})
	}
	return rows, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseClock combines a date at midnight with a clock string.
func parseClock(day time.Time, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("time is empty")
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Submission is one registration: the registrant and the chosen session per time slot.
type Submission struct {
	// Name is the registrant's name.
	Name string `json:"name"`
	// Email is the registrant's address; invitations and the confirmation go there.
	Email string `json:"email"`
	// Answers maps a time slot question title to the chosen session title.
	Answers map[string]string `json:"answers"`
}

// RegisteredSession is a session a registrant was added to.
type RegisteredSession struct {
	Slot     string    `json:"slot"`
	Title    string    `json:"title"`
	EventID  string    `json:"event_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
}

// Registration is the outcome of handling a submission.
type Registration struct {
	Email    string              `json:"email"`
	Sessions []RegisteredSession `json:"sessions"`
	Notified bool                `json:"notified"`
}
