package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// WarehouseService operaciones del motor de stock que consume el handler.
// *warehouse.UseCase lo implementa; los tests lo sustituyen por un stub.
type WarehouseService interface {
	CreateLocation(ctx context.Context, tenantID int64, in dto.CreateLocationRequest) (*entity.Location, error)
	GetLocation(ctx context.Context, tenantID, id int64) (*entity.Location, error)
	ListLocations(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Location, error)
	UpdateLocation(ctx context.Context, tenantID int64, in dto.UpdateLocationRequest) (*entity.Location, error)
	DeleteLocation(ctx context.Context, tenantID int64, in dto.DeleteLocationRequest) error

	CreateStock(ctx context.Context, tenantID int64, in dto.CreateStockRequest) (*entity.Stock, error)
	GetStock(ctx context.Context, tenantID, id int64) (*entity.Stock, error)
	ListStock(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Stock, error)
	UpdateStock(ctx context.Context, tenantID int64, in dto.UpdateStockRequest) (*entity.Stock, error)
	DeleteStock(ctx context.Context, tenantID int64, in dto.DeleteStockRequest) (*entity.Stock, error)

	FusionStock(ctx context.Context, tenantID int64, in dto.FusionStockRequest) (*entity.Stock, error)
	DivideStock(ctx context.Context, tenantID int64, in dto.DivideStockRequest) ([]*entity.Stock, error)
	GroupStock(ctx context.Context, tenantID int64, in dto.RegroupStockRequest) ([]*entity.Stock, error)
	UngroupStock(ctx context.Context, tenantID int64, in dto.RegroupStockRequest) ([]*entity.Stock, error)
	ChangeLocationStock(ctx context.Context, tenantID int64, in dto.ChangeLocationRequest) (*entity.Stock, error)
	CountLocationStock(ctx context.Context, tenantID, locationID int64) (*dto.CountLocationResponse, error)

	ListRegisters(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Register, error)
}

// WarehouseHandler expone el motor de stock bajo /v1/warehouse con el
// envelope ApiResult.
type WarehouseHandler struct {
	svc WarehouseService
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(svc WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

// CreateLocation POST /v1/warehouse/location
func (h *WarehouseHandler) CreateLocation(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	loc, err := h.svc.CreateLocation(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusCreated, loc)
}

// GetLocation GET /v1/warehouse/location/:id
func (h *WarehouseHandler) GetLocation(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondErr(c, domain.ErrLocationNotFound)
	}
	loc, err := h.svc.GetLocation(c.Context(), tid, int64(id))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, loc)
}

// ListLocations GET /v1/warehouse/location
func (h *WarehouseHandler) ListLocations(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	list, err := h.svc.ListLocations(c.Context(), tid, parseListQuery(c))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, list)
}

// UpdateLocation PUT /v1/warehouse/location
func (h *WarehouseHandler) UpdateLocation(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	loc, err := h.svc.UpdateLocation(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, loc)
}

// DeleteLocation DELETE /v1/warehouse/location
func (h *WarehouseHandler) DeleteLocation(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.DeleteLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	if err := h.svc.DeleteLocation(c.Context(), tid, in); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

// CreateStock POST /v1/warehouse/stock
func (h *WarehouseHandler) CreateStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	stock, err := h.svc.CreateStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusCreated, stock)
}

// GetStock GET /v1/warehouse/stock/:id
func (h *WarehouseHandler) GetStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondErr(c, domain.ErrStockNotFound)
	}
	stock, err := h.svc.GetStock(c.Context(), tid, int64(id))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, stock)
}

// ListStock GET /v1/warehouse/stock
func (h *WarehouseHandler) ListStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	list, err := h.svc.ListStock(c.Context(), tid, parseListQuery(c))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, list)
}

// UpdateStock PUT /v1/warehouse/stock
func (h *WarehouseHandler) UpdateStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	stock, err := h.svc.UpdateStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, stock)
}

// DeleteStock DELETE /v1/warehouse/stock
func (h *WarehouseHandler) DeleteStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.DeleteStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	removed, err := h.svc.DeleteStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, removed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones del motor
// ──────────────────────────────────────────────────────────────────────────────

// FusionStock POST /v1/warehouse/stock/fusion
func (h *WarehouseHandler) FusionStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.FusionStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	stock, err := h.svc.FusionStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, stock)
}

// DivideStock POST /v1/warehouse/stock/divide
func (h *WarehouseHandler) DivideStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.DivideStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	pair, err := h.svc.DivideStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, pair)
}

// GroupStock POST /v1/warehouse/stock/group
func (h *WarehouseHandler) GroupStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.RegroupStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	pair, err := h.svc.GroupStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, pair)
}

// UngroupStock POST /v1/warehouse/stock/ungroup
func (h *WarehouseHandler) UngroupStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.RegroupStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	pair, err := h.svc.UngroupStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, pair)
}

// ChangeLocationStock POST /v1/warehouse/stock/change-location
func (h *WarehouseHandler) ChangeLocationStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	var in dto.ChangeLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return respondErr(c, domain.ErrInvalidInput)
	}
	stock, err := h.svc.ChangeLocationStock(c.Context(), tid, in)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, stock)
}

// CountLocationStock GET /v1/warehouse/stock/count-location/:id
func (h *WarehouseHandler) CountLocationStock(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondErr(c, domain.ErrLocationNotFound)
	}
	out, err := h.svc.CountLocationStock(c.Context(), tid, int64(id))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, out)
}

// ListRegisters GET /v1/warehouse/register
func (h *WarehouseHandler) ListRegisters(c *fiber.Ctx) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondErr(c, err)
	}
	list, err := h.svc.ListRegisters(c.Context(), tid, parseListQuery(c))
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fiber.StatusOK, list)
}
