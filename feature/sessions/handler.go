package sessions

import (
	"fmt"

	"session-sync/core/logger"
	"session-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sessions feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sessions routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sessions")
	group.Post("/sync", h.HandleSync)
	group.Post("/form", h.HandleRebuildForm)
	group.Get("/links", h.HandleLinks)
	group.Get("/status", h.HandleStatus)
	group.Post("/reset", h.HandleReset)
	group.Post("/submissions", h.HandleSubmission)
	group.Post("/responses/poll", h.HandlePollResponses)
	group.Post("/export", h.HandleExport)
	group.Get("/export", h.HandleGetExport)
}

// HandleSync runs a synchronization pass.
// @Summary Sync Sessions
// @Description Reconciles every session row with a calendar event and writes new event ids back into the sheet.
// @Tags sessions
// @Produce json
// @Param dry_run query boolean false "Only report the decisions"
// @Success 200 {object} SyncResult
// @Failure 409 {object} map[string]string "Configuration missing"
// @Failure 503 {object} map[string]string "Upstream unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sessions/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	result, err := h.service.Sync(c.Context(), dryRun)
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if result != nil && result.Plan != nil {
			body["plan"] = result.Plan
		}
		return c.Status(server.StatusFor(err)).JSON(body)
	}
	return c.JSON(result)
}

// HandleRebuildForm rebuilds the registration form.
// @Summary Rebuild Registration Form
// @Description Deletes every form item and recreates one section per date and one question per time slot.
// @Tags sessions
// @Produce json
// @Success 200 {object} FormResult
// @Failure 409 {object} map[string]string "Configuration missing"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sessions/form [post]
func (h *Handler) HandleRebuildForm(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.RebuildForm(c.Context())
	if err != nil {
		l.Error("Form rebuild failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(result)
}

// HandleLinks returns the calendar and form URLs.
// @Summary Get Links
// @Description Returns the URLs of the sessions calendar and the registration form.
// @Tags sessions
// @Produce json
// @Param target query string false "calendar or form; both when empty"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Configuration missing"
// @Router /sessions/links [get]
func (h *Handler) HandleLinks(c *fiber.Ctx) error {
	target := c.Query("target")
	links := fiber.Map{}

	if target == "" || target == "calendar" {
		link, err := h.service.CalendarLink(c.Context())
		if err != nil {
			return server.Error(c, err)
		}
		links["calendar"] = link
	}
	if target == "" || target == "form" {
		link, err := h.service.FormLink(c.Context())
		if err != nil {
			return server.Error(c, err)
		}
		links["form"] = link
	}
	if len(links) == 0 {
		return server.Error(c, fmt.Errorf("%w: unknown target %q", server.ErrBadRequest, target))
	}
	return c.JSON(links)
}

// HandleStatus returns the stored identifiers.
// @Summary Registry Status
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]string
// @Router /sessions/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	values, err := h.service.Status(c.Context())
	if err != nil {
		return server.Error(c, err)
	}
	return c.JSON(values)
}

// HandleReset clears the stored identifiers.
// @Summary Reset Registry
// @Description Forgets the stored calendar and form ids. External resources are kept.
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]string
// @Router /sessions/reset [post]
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if err := h.service.Reset(c.Context()); err != nil {
		l.Error("Reset failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(fiber.Map{"status": "reset"})
}

// HandleSubmission handles a registration form submission.
// @Summary Submit Registration
// @Description Adds the registrant as a guest to the chosen sessions and sends a confirmation email.
// @Tags sessions
// @Accept json
// @Produce json
// @Param submission body Submission true "Registration"
// @Success 200 {object} Registration
// @Failure 400 {object} map[string]string "Invalid submission"
// @Failure 409 {object} map[string]string "Configuration missing"
// @Router /sessions/submissions [post]
func (h *Handler) HandleSubmission(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var sub Submission
	if err := c.BodyParser(&sub); err != nil {
		return server.Error(c, fmt.Errorf("%w: %v", server.ErrBadRequest, err))
	}

	reg, err := h.service.HandleSubmission(c.Context(), sub)
	if err != nil {
		l.Error("Submission failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(reg)
}

// HandlePollResponses processes new form responses.
// @Summary Poll Form Responses
// @Tags sessions
// @Produce json
// @Success 200 {object} PollResult
// @Failure 409 {object} map[string]string "Configuration missing"
// @Router /sessions/responses/poll [post]
func (h *Handler) HandlePollResponses(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.PollResponses(c.Context())
	if err != nil {
		l.Error("Polling responses failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(result)
}

// HandleExport uploads the iCalendar export.
// @Summary Export Sessions
// @Description Renders all sessions as iCalendar and uploads the document to object storage.
// @Tags sessions
// @Produce json
// @Success 200 {object} ExportResult
// @Failure 409 {object} map[string]string "Configuration missing"
// @Router /sessions/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.ExportICS(c.Context())
	if err != nil {
		l.Error("Export failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(result)
}

// HandleGetExport serves the last uploaded iCalendar export.
// @Summary Download Export
// @Tags sessions
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Router /sessions/export [get]
func (h *Handler) HandleGetExport(c *fiber.Ctx) error {
	data, err := h.service.ExportedICS(c.Context())
	if err != nil {
		return server.Error(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.Send(data)
}
