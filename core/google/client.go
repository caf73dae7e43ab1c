package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scopes are the OAuth scopes requested for every Google service the application uses.
var Scopes = []string{
	calendar.CalendarScope,
	sheets.SpreadsheetsScope,
	forms.FormsBodyScope,
	forms.FormsResponsesReadonlyScope,
	gmail.GmailSendScope,
}

// OAuthConfig builds the OAuth client configuration.
func OAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
	}
}

// ClientOptions returns the options shared by every Google service client.
//
// A service account key wins when configured. Otherwise the stored OAuth token of
// cfg.Account is used; refreshed tokens are written back to the store.
func ClientOptions(ctx context.Context, cfg Config, store *TokenStore) ([]option.ClientOption, error) {
	if cfg.UsesServiceAccount() {
		return []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(Scopes...),
		}, nil
	}

	if !cfg.UsesOAuth() {
		return nil, fmt.Errorf("google credentials are not configured: set GOOGLE_CREDENTIALS_FILE or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}
	if store == nil {
		return nil, fmt.Errorf("oauth token store is not available")
	}

	tok, err := store.Load(ctx, cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("%w (run the auth command first)", err)
	}

	src := &savingTokenSource{
		base:    OAuthConfig(cfg).TokenSource(ctx, tok),
		store:   store,
		account: cfg.Account,
		last:    tok.AccessToken,
	}
	return []option.ClientOption{
		option.WithTokenSource(oauth2.ReuseTokenSource(tok, src)),
	}, nil
}

// AuthCodeURL returns the consent page URL for the auth command.
func AuthCodeURL(cfg Config) string {
	return OAuthConfig(cfg).AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and stores it for cfg.Account.
func Exchange(ctx context.Context, cfg Config, store *TokenStore, code string) (*oauth2.Token, error) {
	tok, err := OAuthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := store.Save(ctx, cfg.Account, tok); err != nil {
		return nil, err
	}
	return tok, nil
}
