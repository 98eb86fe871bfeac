package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-hub/internal/api/dto"
	"github.com/spec-kit/project-hub/internal/service"
)

// ResetHandler exposes password reset endpoints.
type ResetHandler struct {
	resets *service.PasswordResetService
}

// NewResetHandler constructs handler.
func NewResetHandler(resets *service.PasswordResetService) *ResetHandler {
	return &ResetHandler{resets: resets}
}

// Request handles POST /reset-password/reset?email=.
func (h *ResetHandler) Request(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.resets.RequestReset(c.UserContext(), email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "password reset email sent successfully"})
}

// Validate handles POST /reset-password/validate.
func (h *ResetHandler) Validate(c *fiber.Ctx) error {
	var req dto.TokenValidationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	if err := h.resets.ValidateToken(c.UserContext(), req.Token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "token is valid"})
}

// Confirm handles POST /reset-password.
func (h *ResetHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "token and password required")
	}

	if err := h.resets.ConsumeForPasswordChange(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "password updated successfully"})
}
