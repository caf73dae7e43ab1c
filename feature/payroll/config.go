package payroll

// Config holds configuration for the payroll feature.
type Config struct {
	// Enabled toggles the HTTP routes of the feature.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Sheet is the name of the timesheet sheet.
	Sheet string `mapstructure:"sheet" default:"Timesheet"`
	// OvertimeThreshold is the number of hours paid at the regular rate; 0 disables overtime.
	OvertimeThreshold float64 `mapstructure:"overtime_threshold" default:"40"`
	// OvertimeMultiplier scales the hourly rate for hours above the threshold.
	OvertimeMultiplier float64 `mapstructure:"overtime_multiplier" default:"1.5"`
	// Currency prefixes amounts in notification emails.
	Currency string `mapstructure:"currency" default:"$"`
	// Subject is the subject of approval notification emails.
	Subject string `mapstructure:"subject" default:"Timesheet approval"`
}
