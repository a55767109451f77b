package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

var (
	_ repository.UnitRepository          = (*UnitRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.OperationTypeRepository = (*OperationTypeRepo)(nil)
)

// UnitRepo lectura de unidades de medida.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// GetByID obtiene una unidad por id. Devuelve nil si no existe.
func (r *UnitRepo) GetByID(ctx context.Context, id int64) (*entity.Unit, error) {
	query := `SELECT id, code, description, base_unit, version FROM units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Code, &u.Description, &u.BaseUnit, &u.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// ProductRepo lectura de productos.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por id. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT id, code, description FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Code, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// OperationTypeRepo lectura del catálogo de operaciones (sembrado por migración).
type OperationTypeRepo struct {
	q Querier
}

// NewOperationTypeRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewOperationTypeRepository(q Querier) *OperationTypeRepo {
	return &OperationTypeRepo{q: q}
}

// GetByCode obtiene un tipo de operación por código. Devuelve nil si no existe.
func (r *OperationTypeRepo) GetByCode(ctx context.Context, code string) (*entity.OperationType, error) {
	query := `SELECT id, code, name, description FROM operation_types WHERE code = $1`
	var t entity.OperationType
	err := r.q.QueryRow(ctx, query, code).Scan(&t.ID, &t.Code, &t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation type: %w", err)
	}
	return &t, nil
}
