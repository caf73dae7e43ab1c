package reconcile

import "time"

// TimeSlot is the grouping key for rows sharing a localized date and start time.
type TimeSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// String renders the slot as "<date> <time>".
func (s TimeSlot) String() string {
	return s.Date + " " + s.Time
}

// SlotFormat controls how a row's start is localized into a TimeSlot.
type SlotFormat struct {
	// DateLayout is a time layout for the date part (e.g., "Mon Jan 2 2006"). Dates
	// that render the same share a slot, so layouts without the year merge years.
	DateLayout string
	// TimeLayout is a time layout for the clock part (e.g., "15:04").
	TimeLayout string
	// Location is the zone the start is rendered in. Nil keeps the row's own zone.
	Location *time.Location
}

// DefaultSlotFormat renders slots as ("Mon Jan 2 2006", "15:04").
var DefaultSlotFormat = SlotFormat{
	DateLayout: "Mon Jan 2 2006",
	TimeLayout: "15:04",
}

// SlotOf returns the TimeSlot of a row.
func SlotOf(row Row, f SlotFormat) TimeSlot {
	start := row.Start
	if f.Location != nil {
		start = start.In(f.Location)
	}
	return TimeSlot{
		Date: start.Format(f.DateLayout),
		Time: start.Format(f.TimeLayout),
	}
}

// SlotGroup holds the rows of one time slot, in table order.
type SlotGroup struct {
	Slot TimeSlot `json:"slot"`
	Rows []Row    `json:"rows"`
}

// Titles returns the titles of the group's rows, in order.
func (g SlotGroup) Titles() []string {
	titles := make([]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		titles = append(titles, row.Title)
	}
	return titles
}

// GroupByTimeSlot groups rows by TimeSlot. Groups are ordered by the first occurrence of
// their slot and rows keep their input order inside a group.
func GroupByTimeSlot(rows []Row, f SlotFormat) []SlotGroup {
	var groups []SlotGroup
	index := make(map[TimeSlot]int)

	for _, row := range rows {
		slot := SlotOf(row, f)
		i, ok := index[slot]
		if !ok {
			i = len(groups)
			index[slot] = i
			groups = append(groups, SlotGroup{Slot: slot})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// DateSection holds the slot groups sharing a date.
type DateSection struct {
	Date   string      `json:"date"`
	Groups []SlotGroup `json:"groups"`
}

// GroupByDate partitions slot groups by date, ordered by first occurrence of each date.
// Slot groups keep their relative order inside a section.
func GroupByDate(groups []SlotGroup) []DateSection {
	var sections []DateSection
	index := make(map[string]int)

	for _, group := range groups {
		i, ok := index[group.Slot.Date]
		if !ok {
			i = len(sections)
			index[group.Slot.Date] = i
			sections = append(sections, DateSection{Date: group.Slot.Date})
		}
		sections[i].Groups = append(sections[i].Groups, group)
	}

	return sections
}
