package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "milkcart/internal/log"
	"milkcart/internal/services"
)

type ProfileHandler struct {
	Users *services.UserService
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

type profileUpdateRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	u, err := h.Users.UpdateProfile(currentUser(c).ID, req.Name, req.Address)
	if err != nil {
		return fail(c, "profile.update", err)
	}
	applog.Audit(c, "profile.update", nil)
	return c.JSON(u)
}
