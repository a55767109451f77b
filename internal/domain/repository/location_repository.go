package repository

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

// LocationRepository puerto de persistencia de ubicaciones.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.Location) error
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	// LockByIDs bloquea las filas indicadas en una sola lectura
	// (SELECT ... WHERE id = ANY($1) ORDER BY id FOR UPDATE). El orden
	// ascendente de adquisición evita deadlocks entre transacciones
	// que tocan las mismas ubicaciones.
	LockByIDs(ctx context.Context, ids []int64) ([]*entity.Location, error)
	// Update aplica WHERE id AND version; si no afecta filas devuelve
	// domain.ErrStockConflict. Incrementa version en el struct al éxito.
	Update(ctx context.Context, loc *entity.Location) error
	Delete(ctx context.Context, id, version int64) error
	List(ctx context.Context, q ListQuery) ([]*entity.Location, error)
}
