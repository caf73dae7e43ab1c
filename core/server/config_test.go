package server_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"session-sync/core/reconcile"
	"session-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_AuthEnabled(t *testing.T) {
	assert.False(t, server.Config{}.AuthEnabled())
	assert.True(t, server.Config{ApiKey: "secret"}.AuthEnabled())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"BadRequest", fmt.Errorf("%w: missing email", server.ErrBadRequest), 400},
		{"ConfigMissing", fmt.Errorf("calendar: %w", reconcile.ErrConfigMissing), 409},
		{"Transient", fmt.Errorf("insert: %w", reconcile.ErrTransientUnavailable), 503},
		{"NotFound", reconcile.ErrResourceNotFound, 500},
		{"Other", assert.AnError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.StatusFor(tt.err))
		})
	}
}

func TestError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return server.Error(c, fmt.Errorf("form: %w", reconcile.ErrConfigMissing))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "form: configuration missing", body["error"])
}
