package sessions

import (
	"fmt"
	"time"

	"session-sync/core/reconcile"
)

// Config holds configuration for the sessions feature.
type Config struct {
	// Enabled toggles the HTTP routes of the feature.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Sheet is the name of the sessions sheet.
	Sheet string `mapstructure:"sheet" default:"Sessions"`
	// TimeZone is the IANA zone the sheet's dates and times are written in.
	TimeZone string `mapstructure:"time_zone" default:"UTC"`
	// DateLayout formats the date of a time slot in the registration form.
	DateLayout string `mapstructure:"date_layout" default:"Mon Jan 2 2006"`
	// TimeLayout formats the clock of a time slot in the registration form.
	TimeLayout string `mapstructure:"time_layout" default:"15:04"`
	// FormTitle is the title of the registration form.
	FormTitle string `mapstructure:"form_title" default:"Session Registration"`
	// ConfirmationSubject is the subject of the registration confirmation email.
	ConfirmationSubject string `mapstructure:"confirmation_subject" default:"Your session registration"`
	// ExportKey is the object key of the iCalendar export.
	ExportKey string `mapstructure:"export_key" default:"exports/sessions.ics"`
}

// CalendarConfig selects and configures the calendar provider.
type CalendarConfig struct {
	// Provider is the calendar provider (google, caldav).
	Provider string `mapstructure:"provider" default:"google"`
	// Name is the name of the calendar created (google) or adopted (caldav).
	Name string `mapstructure:"name" default:"Conference Sessions"`
	// CalDAVURL is the CalDAV server URL.
	CalDAVURL string `mapstructure:"caldav_url" default:""`
	// Username is the CalDAV user.
	Username string `mapstructure:"username" default:""`
	// Password is the CalDAV password.
	Password string `mapstructure:"password" default:""`
}

const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

// IsValidProvider checks if the configured calendar provider is supported.
func (c CalendarConfig) IsValidProvider() bool {
	switch c.Provider {
	case ProviderGoogle, ProviderCalDAV:
		return true
	default:
		return false
	}
}

// Location loads the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// SlotFormat returns the time slot format of the registration form.
func (c Config) SlotFormat(loc *time.Location) reconcile.SlotFormat {
	f := reconcile.DefaultSlotFormat
	if c.DateLayout != "" {
		f.DateLayout = c.DateLayout
	}
	if c.TimeLayout != "" {
		f.TimeLayout = c.TimeLayout
	}
	f.Location = loc
	return f
}
