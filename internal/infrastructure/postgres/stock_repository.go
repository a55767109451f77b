package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// Columnas expuestas en listados de stock.
var stockListColumns = map[string]string{
	"id":          "id",
	"quantity":    "quantity",
	"location_id": "location_id",
	"product_id":  "product_id",
	"unit_id":     "unit_id",
	"version":     "version",
}

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, quantity, location_id, product_id, unit_id, version`

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ID, &s.Quantity, &s.LocationID, &s.ProductID, &s.UnitID, &s.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create inserta un stock nuevo y asigna el id generado.
func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stocks (quantity, location_id, product_id, unit_id, version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, s.Quantity, s.LocationID, s.ProductID, s.UnitID, s.Version).Scan(&s.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetByID obtiene un stock por id. Devuelve nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id int64) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`
	s, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// FindByProductAndUnitForUpdate busca el candidato de fusión por producto y
// unidad sin restringir ubicación, bloqueándolo. Con más de un candidato se
// toma el de menor id (determinista frente a transacciones concurrentes).
func (r *StockRepo) FindByProductAndUnitForUpdate(ctx context.Context, productID, unitID int64) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks WHERE product_id = $1 AND unit_id = $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, unitID))
	if err != nil {
		return nil, fmt.Errorf("find stock by product/unit: %w", err)
	}
	return s, nil
}

// UpdateVersioned persiste la fila con chequeo de versión. Cero filas
// afectadas significa versión vencida o fila borrada: ErrStockConflict.
func (r *StockRepo) UpdateVersioned(ctx context.Context, s *entity.Stock) error {
	query := `
		UPDATE stocks
		SET quantity = $3, location_id = $4, product_id = $5, unit_id = $6, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Version, s.Quantity, s.LocationID, s.ProductID, s.UnitID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrStockConflict
	}
	s.Version++
	return nil
}

// DeleteVersioned elimina la fila con chequeo de versión.
func (r *StockRepo) DeleteVersioned(ctx context.Context, id, version int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE id = $1 AND version = $2`, id, version)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrStockConflict
	}
	return nil
}

// SumQuantityByLocation suma las existencias de una ubicación. El SUM sale de
// Postgres como NUMERIC y se escanea a decimal vía el codec del pool.
func (r *StockRepo) SumQuantityByLocation(ctx context.Context, locationID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stocks WHERE location_id = $1`,
		locationID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock by location: %w", err)
	}
	return total, nil
}

// List lista stocks según la gramática de filtros.
func (r *StockRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Stock, error) {
	tail, args, err := buildListSQL(stockListColumns, q)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + stockColumns + ` FROM stocks` + tail
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Stock, 0)
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ID, &s.Quantity, &s.LocationID, &s.ProductID, &s.UnitID, &s.Version); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
