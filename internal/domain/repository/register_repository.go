package repository

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

// RegisterRepository puerto del libro de auditoría. Solo inserta y lista:
// los asientos nunca se modifican ni se borran.
type RegisterRepository interface {
	Create(ctx context.Context, reg *entity.Register) error
	List(ctx context.Context, q ListQuery) ([]*entity.Register, error)
}
