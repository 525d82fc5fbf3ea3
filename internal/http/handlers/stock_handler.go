package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cowsalt/internal/domain"
	applog "cowsalt/internal/log"
	"cowsalt/internal/services"
	"cowsalt/internal/validate"
)

type StockHandler struct {
	Stock *services.StockService
}

type adjustReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Direction string `json:"direction"` // increase | decrease
	Reason    string `json:"reason"`
}

// POST /api/v1/stock/adjust (admin)
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var req adjustReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}

	actor := ""
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		actor = u.ID
	}

	p, err := h.Stock.Adjust(req.ProductID, req.Qty, req.Direction, req.Reason, actor)
	if err != nil {
		applog.Error(c, "stock.adjust.fail", err, map[string]any{"product_id": req.ProductID})
		return respondErr(c, err)
	}
	applog.Audit(c, "stock.adjust", map[string]any{
		"product_id": req.ProductID, "qty": req.Qty, "direction": req.Direction, "reason": req.Reason,
	})
	return c.JSON(p)
}

// GET /api/v1/stock/low
func (h *StockHandler) Low(c *fiber.Ctx) error {
	ps, err := h.Stock.LowStock()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(ps)
}

// GET /api/v1/products/:id/movements
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	ms, err := h.Stock.Movements(id, c.QueryInt("limit", 50))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(ms)
}
