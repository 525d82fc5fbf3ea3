package handlers

import (
	applog "cowsalt/internal/log"
	"cowsalt/internal/repos"
	"cowsalt/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Users   *repos.UserRepo
	Sweeper *services.IntegritySweeper
}

// GET /admin/users
func (h *AdminHandler) UsersList(c *fiber.Ctx) error {
	var users []struct {
		ID    string `db:"id" json:"id"`
		Email string `db:"email" json:"email"`
		Name  string `db:"name" json:"name"`
		Role  string `db:"role" json:"role"`
	}
	if err := h.Users.DB.Select(&users, `SELECT id,email,name,role FROM users ORDER BY email`); err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load users"})
	}
	return c.JSON(users)
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	if err := h.Users.Delete(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not delete user"})
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/integrity/run — on-demand ledger sweep; the cron job runs the
// same check on a schedule.
func (h *AdminHandler) RunIntegrity(c *fiber.Ctx) error {
	bad, err := h.Sweeper.Run()
	if err != nil {
		applog.Error(c, "admin.integrity.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "sweep failed"})
	}
	mismatches := make([]fiber.Map, 0, len(bad))
	for _, e := range bad {
		mismatches = append(mismatches, fiber.Map{
			"sale_id": e.SaleID, "stored": e.Want.String(), "recomputed": e.Got.String(),
		})
	}
	applog.Audit(c, "admin.integrity.run", map[string]any{"mismatches": len(bad)})
	return c.JSON(fiber.Map{"mismatches": mismatches})
}
