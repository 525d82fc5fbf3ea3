package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cowsalt/internal/repos"
	"cowsalt/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}

// respondErr maps typed service errors to JSON responses. Anything unmapped
// falls through to the app error handler (500, no internals leaked).
func respondErr(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	var nf *services.NotFoundError
	var is *services.InsufficientStockError
	var ia *services.InvalidAdjustmentError
	var te *repos.TransientError

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Error(), "field": ve.Field,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": nf.Error(),
		})
	case errors.As(err, &is):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      is.Error(),
			"product_id": is.ProductID,
			"requested":  is.Requested,
			"available":  is.Available,
		})
	case errors.As(err, &ia):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      ia.Error(),
			"product_id": ia.ProductID,
			"requested":  ia.Requested,
			"available":  ia.Available,
		})
	case errors.As(err, &te):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "store temporarily unavailable, try again",
		})
	}
	return err
}
