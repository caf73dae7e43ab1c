package payroll

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"session-sync/core/table"
	"session-sync/core/utils"
)

// Columns of the timesheet.
const (
	ColEmployee = iota
	ColEmail
	ColRate
	ColHours
	ColTotalPay
	ColApproval
	ColNotified
)

// Header is the expected header row of the timesheet.
var Header = []string{"Employee", "Email", "Hourly Rate", "Hours", "Total Pay", "Approval", "Notified"}

// Approval statuses. Any other value is left alone.
const (
	StatusApproved    = "APPROVED"
	StatusNotApproved = "NOT APPROVED"
)

// ErrInvalidEntry is returned when a timesheet row cannot be parsed.
var ErrInvalidEntry = errors.New("invalid timesheet row")

// Entry is one row of the timesheet.
type Entry struct {
	Position int     `json:"position"`
	Employee string  `json:"employee"`
	Email    string  `json:"email"`
	Rate     float64 `json:"rate"`
	Hours    float64 `json:"hours"`
	// TotalPay is the value currently in the sheet; nil when the cell is empty or not a number.
	TotalPay *float64 `json:"total_pay,omitempty"`
	Status   string   `json:"status"`
	Notified string   `json:"notified,omitempty"`
}

// HasDecision reports whether the entry carries an approval decision worth notifying.
func (e Entry) HasDecision() bool {
	return e.Status == StatusApproved || e.Status == StatusNotApproved
}

// ParseEntries converts timesheet values into entries. Row 0 is the header and is
// skipped, as are rows without an employee name.
func ParseEntries(values [][]any) ([]Entry, error) {
	var entries []Entry
	for i := 1; i < len(values); i++ {
		raw := values[i]
		name := utils.ToTrimmedString(table.Cell(raw, ColEmployee))
		if name == "" {
			continue
		}

		rate, err := utils.ToFloat(table.Cell(raw, ColRate))
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("%w %d (%s): hourly rate %v", ErrInvalidEntry, i, name, table.Cell(raw, ColRate))
		}
		hours, err := utils.ToFloat(table.Cell(raw, ColHours))
		if err != nil || hours < 0 {
			return nil, fmt.Errorf("%w %d (%s): hours %v", ErrInvalidEntry, i, name, table.Cell(raw, ColHours))
		}

		entry := Entry{
			Position: i,
			Employee: name,
			Email:    utils.ToTrimmedString(table.Cell(raw, ColEmail)),
			Rate:     rate,
			Hours:    hours,
			Status:   strings.ToUpper(utils.ToTrimmedString(table.Cell(raw, ColApproval))),
			Notified: utils.ToTrimmedString(table.Cell(raw, ColNotified)),
		}
		if total, err := utils.ToFloat(table.Cell(raw, ColTotalPay)); err == nil {
			entry.TotalPay = &total
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ComputePay returns rate × regular hours plus rate × multiplier × overtime hours,
// rounded to cents. A threshold of 0 disables overtime.
func ComputePay(rate, hours, threshold, multiplier float64) float64 {
	regular, overtime := hours, 0.0
	if threshold > 0 && hours > threshold {
		regular = threshold
		overtime = hours - threshold
	}
	return math.Round((rate*regular+rate*multiplier*overtime)*100) / 100
}

// FormatAmount renders an amount with a currency prefix and two decimals.
func FormatAmount(currency string, amount float64) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}
