package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers messages through the Gmail API as the authorized user.
type GmailSender struct {
	service  *gmail.Service
	from     string
	replyTo  string
	classify func(error) error
}

// NewGmailSender creates a Gmail sender. classify maps API errors to error kinds; it may be nil.
func NewGmailSender(ctx context.Context, cfg Config, classify func(error) error, opts ...option.ClientOption) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	if classify == nil {
		classify = func(err error) error { return err }
	}
	return &GmailSender{service: service, from: cfg.From, replyTo: cfg.ReplyTo, classify: classify}, nil
}

func (s *GmailSender) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = s.from
	}
	if msg.ReplyTo == "" {
		msg.ReplyTo = s.replyTo
	}
	raw, err := msg.Bytes(time.Now())
	if err != nil {
		return err
	}

	_, err = s.service.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send mail to %v: %w", msg.To, s.classify(err))
	}
	return nil
}
