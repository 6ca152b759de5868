package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "milkcart/internal/log"
	"milkcart/internal/services"
	"milkcart/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Login sends a one-time code. The response is identical whether or not
// the phone was already registered.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		applog.Security(c, "auth.login.bad_phone", nil)
		return badRequest(c, "invalid phone number")
	}
	if err := h.Auth.RequestCode(phone); err != nil {
		return fail(c, "auth.login", err)
	}
	applog.Audit(c, "auth.otp.sent", map[string]any{"phone": phone})
	return c.JSON(fiber.Map{"message": "OTP sent"})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return badRequest(c, "invalid phone number")
	}
	otp, ok := validate.OTP(req.OTP)
	if !ok {
		applog.Security(c, "auth.verify.bad_otp_format", map[string]any{"phone": phone})
		return fail(c, "auth.verify", services.ErrInvalidCredential)
	}
	token, u, err := h.Auth.VerifyCode(phone, otp)
	if err != nil {
		applog.Security(c, "auth.verify.fail", map[string]any{"phone": phone})
		return fail(c, "auth.verify", err)
	}
	applog.Audit(c, "auth.verify.success", map[string]any{"user_id": u.ID, "role": u.RoleName})
	return c.JSON(fiber.Map{
		"verified":     true,
		"access_token": token,
		"token_type":   "bearer",
		"user_id":      u.ID,
		"role":         u.RoleName,
	})
}
