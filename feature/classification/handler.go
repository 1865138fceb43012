package classification

import (
	"bytes"
	"errors"

	"kbli-registry/core/logger"
	"kbli-registry/core/utils"
	"kbli-registry/feature/classification/export"
	"kbli-registry/feature/classification/query"
	"kbli-registry/feature/classification/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the registry.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the registry routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/registry")
	group.Get("/summary", h.HandleSummary)
	group.Get("/codes", h.HandleQuery)
	group.Get("/codes/:code", h.HandleLookup)
	group.Get("/conflicts", h.HandleConflicts)
	group.Get("/sectors", h.HandleSectors)
	group.Get("/diff", h.HandleDiff)
	group.Get("/history", h.HandleHistory)

	exports := app.Group("/export")
	exports.Get("/unified", h.HandleExportUnified)
	exports.Get("/surplus", h.HandleExportSurplus)
	exports.Get("/deficit", h.HandleExportDeficit)

	app.Post("/reconcile", h.HandleReconcile)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var validation *query.ValidationError
	var input *reconcile.InputError
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &input):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrNoSnapshot), errors.Is(err, ErrNoStorage), errors.Is(err, ErrNoArchive):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrCodeNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleSummary returns the aggregates of the current registry.
// @Summary Registry Summary
// @Description Returns partition sizes, conflict count, sector and risk level aggregates of the current snapshot.
// @Tags registry
// @Produce json
// @Success 200 {object} SummaryView
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	view, err := h.service.Summary()
	if err != nil {
		return h.fail(c, "Summary failed", err)
	}
	return c.JSON(view)
}

// HandleQuery filters the registry.
// @Summary Query Codes
// @Description Returns codes ordered ascending. Filters combine with AND; unknown filter fields are rejected.
// @Tags registry
// @Produce json
// @Param sector query string false "Two-digit sector"
// @Param riskLevel query string false "Low, Medium, High or Unclassified"
// @Param pmaAllowed query string false "true, false or unknown"
// @Param scaleTier query string false "Micro, Small, Medium or Large"
// @Param partition query string false "matched, surplus or deficit"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} query.Page
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/codes [get]
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	page, err := h.service.Query(c.Queries())
	if err != nil {
		return h.fail(c, "Query failed", err)
	}
	return c.JSON(page)
}

// HandleLookup returns one code.
// @Summary Lookup Code
// @Description Returns one code with its partition, provenance and source conflicts.
// @Tags registry
// @Produce json
// @Param code path string true "KBLI code"
// @Success 200 {object} CodeView
// @Failure 404 {object} map[string]string "Unknown code"
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/codes/{code} [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	view, err := h.service.Lookup(c.Params("code"))
	if err != nil {
		return h.fail(c, "Lookup failed", err)
	}
	return c.JSON(view)
}

// HandleConflicts lists matched codes whose sources disagree.
// @Summary List Conflicts
// @Tags registry
// @Produce json
// @Success 200 {array} models.ClassificationCode
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/conflicts [get]
func (h *Handler) HandleConflicts(c *fiber.Ctx) error {
	codes, err := h.service.Conflicts()
	if err != nil {
		return h.fail(c, "Conflicts failed", err)
	}
	return c.JSON(codes)
}

// HandleSectors lists sector aggregates.
// @Summary List Sectors
// @Tags registry
// @Produce json
// @Success 200 {array} SectorView
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/sectors [get]
func (h *Handler) HandleSectors(c *fiber.Ctx) error {
	sectors, err := h.service.Sectors()
	if err != nil {
		return h.fail(c, "Sectors failed", err)
	}
	return c.JSON(sectors)
}

// HandleDiff compares the current snapshot with the previous one.
// @Summary Snapshot Diff
// @Tags registry
// @Produce json
// @Success 200 {object} registry.Delta
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /registry/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	delta, err := h.service.Diff()
	if err != nil {
		return h.fail(c, "Diff failed", err)
	}
	return c.JSON(delta)
}

// HandleHistory lists archived snapshots.
// @Summary Snapshot History
// @Tags registry
// @Produce json
// @Param limit query int false "Maximum entries" default(20)
// @Success 200 {array} archive.SnapshotRecord
// @Failure 503 {object} map[string]string "Archive not configured"
// @Router /registry/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	records, err := h.service.History(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, "History failed", err)
	}
	return c.JSON(records)
}

// HandleExportUnified returns the unified document.
// @Summary Export Unified Registry
// @Description Canonical JSON of every code with provenance and source conflicts. Identical registries export identical bytes.
// @Tags export
// @Produce json
// @Success 200 {object} export.UnifiedDocument
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /export/unified [get]
func (h *Handler) HandleExportUnified(c *fiber.Ctx) error {
	data, err := h.service.ExportUnified()
	if err != nil {
		return h.fail(c, "Unified export failed", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleExportSurplus returns the surplus report.
// @Summary Export Surplus
// @Description Codes listed only by the portal, grouped by sector.
// @Tags export
// @Produce json,text/csv
// @Param format query string false "json or csv"
// @Success 200 {object} export.Report
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /export/surplus [get]
func (h *Handler) HandleExportSurplus(c *fiber.Ctx) error {
	return h.report(c, reconcile.PartitionSurplus)
}

// HandleExportDeficit returns the deficit report.
// @Summary Export Deficit
// @Description Codes listed only by the regulation, grouped by sector.
// @Tags export
// @Produce json,text/csv
// @Param format query string false "json or csv"
// @Success 200 {object} export.Report
// @Failure 503 {object} map[string]string "No snapshot yet"
// @Router /export/deficit [get]
func (h *Handler) HandleExportDeficit(c *fiber.Ctx) error {
	return h.report(c, reconcile.PartitionDeficit)
}

func (h *Handler) report(c *fiber.Ctx, p reconcile.Partition) error {
	r, err := h.service.Report(p)
	if err != nil {
		return h.fail(c, "Report failed", err)
	}

	switch c.Query("format", "json") {
	case "json":
		return c.JSON(r)
	case "csv":
		return h.sendCSV(c, r)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format must be json or csv"})
	}
}

// sendCSV writes r as a CSV attachment named after its partition.
func (h *Handler) sendCSV(c *fiber.Ctx, r export.Report) error {
	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return h.fail(c, "Report failed", err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(string(r.Partition) + ".csv")
	return c.Send(buf.Bytes())
}

// HandleReconcile runs a reconciliation pass.
// @Summary Run Reconciliation
// @Description Loads both sources, reconciles them and swaps in the new snapshot. Optionally publishes the exports to the bucket.
// @Tags registry
// @Produce json
// @Param publish query boolean false "Publish exports to storage"
// @Success 200 {object} PassReport
// @Failure 422 {object} map[string]string "Source rejected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering reconciliation pass")

	report, err := h.service.Refresh(c.Context())
	if err != nil {
		return h.fail(c, "Reconciliation failed", err)
	}

	if utils.ToBool(c.Query("publish")) {
		published, err := h.service.PublishExports(c.Context())
		if err != nil {
			return h.fail(c, "Publishing exports failed", err)
		}
		out := *report
		out.Published = published
		return c.JSON(out)
	}

	return c.JSON(report)
}
