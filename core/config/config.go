package config

import (
	"fmt"
	"reflect"
	"strings"

	"session-sync/core/database"
	"session-sync/core/google"
	"session-sync/core/logger"
	"session-sync/core/mail"
	"session-sync/core/server"
	"session-sync/core/storage"
	"session-sync/core/table"
	"session-sync/feature/payroll"
	"session-sync/feature/sessions"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage used for exports.
	Storage storage.Config `mapstructure:"storage"`
	// Google holds the credentials for Google APIs.
	Google google.Config `mapstructure:"google"`
	// Table selects where the sheets live.
	Table table.Config `mapstructure:"table"`
	// Calendar selects the calendar provider.
	Calendar sessions.CalendarConfig `mapstructure:"calendar"`
	// Sessions holds configuration for the sessions feature.
	Sessions sessions.Config `mapstructure:"sessions"`
	// Payroll holds configuration for the payroll feature.
	Payroll payroll.Config `mapstructure:"payroll"`
	// Mail holds configuration for outgoing mail.
	Mail mail.Config `mapstructure:"mail"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects unsupported driver and provider names.
func (c *Config) Validate() error {
	if !c.Database.IsValidDriver() {
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if !c.Table.IsValidBackend() {
		return fmt.Errorf("unsupported table backend: %q", c.Table.Backend)
	}
	if !c.Calendar.IsValidProvider() {
		return fmt.Errorf("unsupported calendar provider: %q", c.Calendar.Provider)
	}
	if !c.Mail.IsValidDriver() {
		return fmt.Errorf("unsupported mail driver: %q", c.Mail.Driver)
	}
	if c.Payroll.OvertimeThreshold < 0 || c.Payroll.OvertimeMultiplier < 0 {
		return fmt.Errorf("payroll overtime settings must not be negative")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
