package warehouse

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// o se confirman la mutación y su asiento de auditoría, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		unitRepo repository.UnitRepository,
		productRepo repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error) error
}

// TxRunnerProvider resuelve el TxRunner de un tenant. El enrutador de
// conexiones (infraestructura) implementa este puerto.
type TxRunnerProvider interface {
	ForTenant(ctx context.Context, tenantID int64) (TxRunner, error)
}
