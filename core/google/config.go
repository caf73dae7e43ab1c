package google

// Config holds the credentials used to reach Google APIs.
//
// Either CredentialsFile (a service account key) or ClientID/ClientSecret (an installed
// OAuth application whose token is stored in the database) must be set.
type Config struct {
	// CredentialsFile is the path to a service account JSON key.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// ClientID is the OAuth client id.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth client secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// RedirectURL is the OAuth redirect URL used by the auth command.
	RedirectURL string `mapstructure:"redirect_url" default:"urn:ietf:wg:oauth:2.0:oob"`
	// Account names the stored token to use.
	Account string `mapstructure:"account" default:"default"`
}

// UsesServiceAccount reports whether a service account key is configured.
func (c Config) UsesServiceAccount() bool {
	return c.CredentialsFile != ""
}

// UsesOAuth reports whether an OAuth client is configured.
func (c Config) UsesOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
