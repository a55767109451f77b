package repository

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

// TenantRepository puerto del catálogo maestro de tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id int64) (*entity.Tenant, error)
	GetByActivationCode(ctx context.Context, code string) (*entity.Tenant, error)
	Activate(ctx context.Context, id int64) error
	// ReserveServer elige el servidor de DB con cupo libre, bloqueando la fila
	// (SELECT FOR UPDATE) e incrementando assigned en la misma transacción.
	ReserveServer(ctx context.Context) (*entity.DBServer, error)
}

// UserRepository puerto de usuarios (base de datos del tenant).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
