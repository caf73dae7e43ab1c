package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoToken is returned when no OAuth token is stored for an account.
var ErrNoToken = errors.New("no oauth token stored")

// Token is the database row holding an account's OAuth token as JSON.
type Token struct {
	Account   string `gorm:"primaryKey;size:191"`
	Token     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Token) TableName() string {
	return "oauth_tokens"
}

// TokenStore persists OAuth tokens per account.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore creates a token store on db.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Migrate creates the token table.
func (s *TokenStore) Migrate() error {
	return s.db.AutoMigrate(&Token{})
}

// Load returns the stored token of account, or ErrNoToken.
func (s *TokenStore) Load(ctx context.Context, account string) (*oauth2.Token, error) {
	var row Token
	err := s.db.WithContext(ctx).Where("account = ?", account).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("account %s: %w", account, ErrNoToken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(row.Token), &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token of %s: %w", account, err)
	}
	return &tok, nil
}

// Save stores or replaces the token of account.
func (s *TokenStore) Save(ctx context.Context, account string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	row := Token{Account: account, Token: string(data), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// savingTokenSource persists every token whose access token differs from the last one seen.
type savingTokenSource struct {
	base    oauth2.TokenSource
	store   *TokenStore
	account string
	last    string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := s.store.Save(context.Background(), s.account, tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
