package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "cowsalt/internal/log"
	"cowsalt/internal/services"
	"cowsalt/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/search?q=&category= — product lookup for the POS terminal.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			applog.Security(c, "search.badquery", map[string]any{"q": c.Query("q")})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search query"})
		}
	}
	category := c.Query("category")
	if category != "" {
		var ok bool
		if category, ok = validate.ID(category); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
	}

	ps, err := h.Catalog.SearchProducts(q, category, c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(ps)
}
