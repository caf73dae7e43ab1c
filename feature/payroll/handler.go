package payroll

import (
	"session-sync/core/logger"
	"session-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the payroll feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the payroll routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/payroll")
	group.Post("/run", h.HandleRun)
}

// HandleRun runs payroll over the timesheet.
// @Summary Run Payroll
// @Description Writes total pay for every timesheet row and emails pending approval decisions.
// @Tags payroll
// @Produce json
// @Param dry_run query boolean false "Only report what would change"
// @Success 200 {object} Report
// @Failure 503 {object} map[string]string "Upstream unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /payroll/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Run(c.Context(), c.QueryBool("dry_run", false))
	if err != nil {
		l.Error("Payroll run failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["report"] = report
		}
		return c.Status(server.StatusFor(err)).JSON(body)
	}
	return c.JSON(report)
}
