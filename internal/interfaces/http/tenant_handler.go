package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/application/tenant"
	"github.com/nuplus/warehouses-api/internal/domain"
)

// TenantHandler alta y activación de tenants.
type TenantHandler struct {
	uc *tenant.UseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *tenant.UseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Signup POST /v1/tenant/signup
func (h *TenantHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Signup(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ApiError{Code: "DUPLICATE", Message: "el email ya está registrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ApiError{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Activate POST /v1/tenant/activate
func (h *TenantHandler) Activate(c *fiber.Ctx) error {
	var in dto.ActivateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Activate(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ApiError{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrTenantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ApiError{Code: "NOT_FOUND", Message: "código de activación inválido"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ApiError{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(t)
}
