package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMessage_Bytes(t *testing.T) {
	msg := Message{
		From:    "events@example.com",
		To:      []string{"ada@example.com", "Grace <grace@example.com>"},
		Subject: "Your sessions",
		Body:    "Line one\nLine two",
	}

	raw, err := msg.Bytes(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "From: events@example.com\r\n")
	assert.Contains(t, s, "To: ada@example.com, Grace <grace@example.com>\r\n")
	assert.Contains(t, s, "Subject: Your sessions\r\n")
	assert.Contains(t, s, "Date: Mon, 04 Mar 2024 09:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nLine one\r\nLine two"))
}

func TestMessage_EncodesSubject(t *testing.T) {
	raw, err := Message{To: []string{"a@example.com"}, Subject: "Bestätigung"}.Bytes(time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: =?utf-8?q?Best=C3=A4tigung?=")
}

func TestMessage_Validate(t *testing.T) {
	assert.ErrorIs(t, Message{}.Validate(), ErrNoRecipient)
	assert.Error(t, Message{To: []string{"not an address"}}.Validate())
	assert.Error(t, Message{From: "@@", To: []string{"a@example.com"}}.Validate())
	assert.NoError(t, Message{To: []string{"a@example.com"}}.Validate())
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))

	err := sender.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "Hi"})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Hi", entry.ContextMap()["subject"])
}

func TestOutbox(t *testing.T) {
	box := NewOutbox()
	require.NoError(t, box.Send(context.Background(), Message{To: []string{"a@example.com"}}))
	assert.Error(t, box.Send(context.Background(), Message{}))
	assert.Len(t, box.Messages(), 1)

	box.Err = assert.AnError
	assert.ErrorIs(t, box.Send(context.Background(), Message{To: []string{"a@example.com"}}), assert.AnError)
}

func TestConfig_IsValidDriver(t *testing.T) {
	assert.True(t, Config{Driver: DriverGmail}.IsValidDriver())
	assert.True(t, Config{Driver: DriverLog}.IsValidDriver())
	assert.False(t, Config{Driver: "smtp"}.IsValidDriver())
}
