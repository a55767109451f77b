package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/application/auth"
	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
)

// AuthHandler login contra la base del tenant.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login POST /v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ApiError{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ApiError{Code: "FORBIDDEN", Message: "usuario deshabilitado"})
		case errors.Is(err, domain.ErrTenantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ApiError{Code: "NOT_FOUND", Message: "tenant no encontrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ApiError{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}
