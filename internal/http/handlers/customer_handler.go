package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "cowsalt/internal/log"
	"cowsalt/internal/services"
	"cowsalt/internal/validate"
)

type CustomerHandler struct {
	Catalog *services.CatalogService
	Ledger  *services.LedgerService
}

// GET /api/v1/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	cs, err := h.Catalog.ListCustomers(c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cs)
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer id"})
	}
	cust, err := h.Catalog.GetCustomer(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cust)
}

// POST /api/v1/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if _, ok := validate.Name(in.Name); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-60 characters"})
	}
	if in.Email != "" {
		if _, ok := validate.Email(in.Email); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
		}
	}
	if in.Phone != "" {
		if _, ok := validate.Phone(in.Phone); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone"})
		}
	}
	cust, err := h.Catalog.CreateCustomer(in)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// GET /api/v1/customers/:id/sales — history, most recent first, lines resolved.
func (h *CustomerHandler) Sales(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer id"})
	}
	history, err := h.Ledger.GetCustomerSales(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(history)
}
