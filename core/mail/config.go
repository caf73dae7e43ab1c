package mail

// Config holds configuration for outgoing mail.
type Config struct {
	// Driver selects the sender (gmail, log).
	Driver string `mapstructure:"driver" default:"log"`
	// From is the sender address.
	From string `mapstructure:"from" default:""`
	// ReplyTo is an optional reply address.
	ReplyTo string `mapstructure:"reply_to" default:""`
}

const (
	DriverGmail = "gmail"
	DriverLog   = "log"
)

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverGmail, DriverLog:
		return true
	default:
		return false
	}
}
