package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

// StockRepository puerto de persistencia de stock. Los métodos versionados
// aplican bloqueo optimista: WHERE id = $1 AND version = $2, y fallan con
// domain.ErrStockConflict si no afectan exactamente una fila.
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) error
	GetByID(ctx context.Context, id int64) (*entity.Stock, error)
	// GetForUpdate bloquea la fila de stock (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error)
	// FindByProductAndUnitForUpdate busca un candidato de fusión por
	// (product_id, unit_id) sin restringir ubicación. Devuelve nil si no hay.
	FindByProductAndUnitForUpdate(ctx context.Context, productID, unitID int64) (*entity.Stock, error)
	// UpdateVersioned persiste quantity/location/unit con chequeo de versión
	// e incrementa version en la fila y en el struct.
	UpdateVersioned(ctx context.Context, s *entity.Stock) error
	DeleteVersioned(ctx context.Context, id, version int64) error
	// SumQuantityByLocation suma las cantidades de una ubicación (NUMERIC -> decimal).
	SumQuantityByLocation(ctx context.Context, locationID int64) (decimal.Decimal, error)
	List(ctx context.Context, q ListQuery) ([]*entity.Stock, error)
}
