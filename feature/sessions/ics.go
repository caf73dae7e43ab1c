package sessions

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"session-sync/core/reconcile"

	"github.com/emersion/go-ical"
)

const productID = "-//session-sync//sessions//EN"

// newICalCalendar returns an empty VCALENDAR with the mandatory properties set.
func newICalCalendar(name string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	if name != "" {
		cal.Props.Set(calendarNameProp(name))
	}
	return cal
}

// calendarNameProp builds X-WR-CALNAME. Clients expect it without a VALUE parameter,
// which go-ical adds to every non-standard text property.
func calendarNameProp(name string) *ical.Prop {
	prop := ical.NewProp("X-WR-CALNAME")
	prop.SetText(name)
	prop.Params.Del(ical.ParamValue)
	return prop
}

// newICalEvent builds a VEVENT for a session.
func newICalEvent(uid string, p reconcile.Payload, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetText(ical.PropSummary, p.Title)
	event.Props.SetDateTime(ical.PropDateTimeStart, p.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, p.End)
	if p.Location != "" {
		event.Props.SetText(ical.PropLocation, p.Location)
	}
	event.Props.SetText(ical.PropStatus, "CONFIRMED")
	return event
}

// eventComponent returns the first VEVENT of a calendar.
func eventComponent(cal *ical.Calendar) *ical.Component {
	if cal == nil {
		return nil
	}
	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			return child
		}
	}
	return nil
}

// attendeeEmails lists the addresses of the ATTENDEE properties.
func attendeeEmails(comp *ical.Component) []string {
	var emails []string
	for _, prop := range comp.Props.Values(ical.PropAttendee) {
		emails = append(emails, strings.TrimPrefix(strings.ToLower(prop.Value), "mailto:"))
	}
	return emails
}

// addICalAttendee appends an ATTENDEE unless the address is already present.
func addICalAttendee(comp *ical.Component, email string) bool {
	for _, existing := range attendeeEmails(comp) {
		if strings.EqualFold(existing, email) {
			return false
		}
	}
	prop := ical.NewProp(ical.PropAttendee)
	prop.Value = "mailto:" + email
	prop.Params.Set("ROLE", "REQ-PARTICIPANT")
	comp.Props.Add(prop)
	return true
}

func textProp(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}

// resourceFromICal converts a VEVENT into a resource.
func resourceFromICal(comp *ical.Component, loc *time.Location) *reconcile.Resource {
	res := &reconcile.Resource{
		ID:       textProp(comp, ical.PropUID),
		Title:    textProp(comp, ical.PropSummary),
		Location: textProp(comp, ical.PropLocation),
		Guests:   attendeeEmails(comp),
	}
	res.Start, _ = comp.Props.DateTime(ical.PropDateTimeStart, loc)
	res.End, _ = comp.Props.DateTime(ical.PropDateTimeEnd, loc)
	return res
}

// exportUID is the UID of a session in the iCalendar export.
func exportUID(row reconcile.Row) string {
	if row.ResourceID != "" {
		return row.ResourceID
	}
	return fmt.Sprintf("session-row-%d@session-sync", row.Position)
}

// BuildICS renders sessions as an iCalendar document.
func BuildICS(name string, rows []reconcile.Row, stamp time.Time) ([]byte, error) {
	cal := newICalCalendar(name)
	for _, row := range rows {
		cal.Children = append(cal.Children, newICalEvent(exportUID(row), row.Payload(), stamp).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
