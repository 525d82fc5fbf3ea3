package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cowsalt/internal/domain"
	applog "cowsalt/internal/log"
	"cowsalt/internal/services"
	"cowsalt/internal/validate"
)

type POSHandler struct {
	Ledger *services.LedgerService
}

type createSaleReq struct {
	CustomerID    string              `json:"customer_id"`
	Items         []services.SaleLine `json:"items"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
}

// POST /api/v1/sales
func (h *POSHandler) Create(c *fiber.Ctx) error {
	var req createSaleReq
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "sale.create.badbody", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if req.CustomerID != "" {
		if _, ok := validate.ID(req.CustomerID); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer id"})
		}
	}

	actor := ""
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		actor = u.ID
	}

	sale, err := h.Ledger.CreateSale(req.CustomerID, req.Items, req.PaymentMethod, req.PaymentStatus, actor)
	if err != nil {
		applog.Error(c, "sale.create.fail", err, map[string]any{"customer_id": req.CustomerID})
		return respondErr(c, err)
	}

	applog.Audit(c, "sale.create", map[string]any{
		"sale_id": sale.ID,
		"total":   sale.Total.String(),
		"items":   len(req.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GET /api/v1/sales/:id
func (h *POSHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sale id"})
	}
	sale, items, err := h.Ledger.GetSale(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"sale": sale, "items": items})
}

type statusReq struct {
	Status string `json:"status"`
}

// POST /api/v1/sales/:id/status — payment confirmation callbacks land here.
func (h *POSHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sale id"})
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	sale, err := h.Ledger.SetPaymentStatus(id, req.Status)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "sale.status", map[string]any{"sale_id": id, "status": req.Status})
	return c.JSON(sale)
}
