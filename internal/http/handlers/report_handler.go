package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "cowsalt/internal/log"
	"cowsalt/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET / — dashboard page for the terminal browser.
func (h *ReportHandler) Home(c *fiber.Ctx) error {
	stats, err := h.Reports.Dashboard()
	if err != nil {
		applog.Error(c, "dashboard.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	daily, _ := h.Reports.DailySales(14)
	return render(c, "dashboard", fiber.Map{"Stats": stats, "Daily": daily})
}

// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Reports.Dashboard()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(stats)
}

// GET /api/v1/reports/daily?days=30
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	out, err := h.Reports.DailySales(c.QueryInt("days", 30))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}
