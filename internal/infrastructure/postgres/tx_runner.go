package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuplus/warehouses-api/internal/application/warehouse"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// Ensure TxRunner implements warehouse.TxRunner.
var _ warehouse.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool (el de un tenant).
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repositorios atados a la tx y
// hace Commit o Rollback. Los locks FOR UPDATE tomados dentro de fn viven
// hasta el cierre de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	unitRepo repository.UnitRepository,
	productRepo repository.ProductRepository,
	opTypeRepo repository.OperationTypeRepository,
	registerRepo repository.RegisterRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locationRepo := NewLocationRepository(tx)
	stockRepo := NewStockRepository(tx)
	unitRepo := NewUnitRepository(tx)
	productRepo := NewProductRepository(tx)
	opTypeRepo := NewOperationTypeRepository(tx)
	registerRepo := NewRegisterRepository(tx)

	if err := fn(locationRepo, stockRepo, unitRepo, productRepo, opTypeRepo, registerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
