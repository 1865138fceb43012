package health

import (
	"kbli-registry/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleHealth runs all checks.
// @Summary Health
// @Description Reports whether a snapshot is served and whether storage and the archive database are usable. Answers 503 until the first snapshot is available.
// @Tags health
// @Produce json
// @Success 200 {object} Report
// @Failure 503 {object} Report
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.service.Check(c.Context())
	if report.Status == StatusError {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks the source objects and the export folder.
// @Summary Check Storage
// @Description Checks that the bucket holds the configured source objects and the export folder. Optionally creates the export folder.
// @Tags health
// @Produce json
// @Param fix query boolean false "Create the missing export folder"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /health/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if h.service.client == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "object storage is not configured"})
	}

	ctx := c.Context()
	missingSources, err := h.service.CheckSources(ctx)
	if err != nil {
		l.Error("Source check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	missingExports, err := h.service.CheckExports(ctx)
	if err != nil {
		l.Error("Export folder check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missingSources) > 0 {
		l.Warn("Source objects missing", zap.Strings("missing", missingSources))
	}

	if len(missingExports) > 0 && c.Query("fix") == "true" {
		l.Info("Creating missing export folder")
		if err := h.service.FixExports(ctx, missingExports); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create export folder",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":          "fixed",
			"fixed":           missingExports,
			"missing_sources": missingSources,
		})
	}

	return c.JSON(fiber.Map{
		"status":          "checked",
		"missing_sources": missingSources,
		"missing_exports": missingExports,
	})
}

// HandleDatabaseCheck checks the archive table.
// @Summary Check Database
// @Description Checks that the archive table carries the expected columns.
// @Tags health
// @Produce json
// @Success 200 {object} checks.ArchiveReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database not configured"
// @Router /health/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	status := h.service.CheckDatabase()
	switch status.Status {
	case StatusDisabled:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "database is not configured"})
	case StatusError:
		if status.Table == nil {
			logger.WithRayID(h.service.logger, c).Error("Archive check failed", zap.String("error", status.Error))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": status.Error})
		}
	}
	return c.JSON(status.Table)
}
