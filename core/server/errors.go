package server

import (
	"errors"

	"session-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// ErrBadRequest marks errors caused by invalid client input.
var ErrBadRequest = errors.New("bad request")

// StatusFor maps an error kind to the HTTP status a handler responds with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrConfigMissing):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrTransientUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a JSON error body with the status StatusFor assigns.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
