package repository

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

// UnitRepository puerto de lectura de unidades de medida.
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Unit, error)
}

// ProductRepository puerto de lectura de productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
}

// OperationTypeRepository puerto de lectura del catálogo de operaciones.
type OperationTypeRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.OperationType, error)
}
