package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuplus/warehouses-api/internal/application/auth"
	"github.com/nuplus/warehouses-api/internal/application/tenant"
	"github.com/nuplus/warehouses-api/internal/application/warehouse"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
	"github.com/nuplus/warehouses-api/pkg/config"
	"github.com/nuplus/warehouses-api/pkg/crypto"
	"github.com/nuplus/warehouses-api/pkg/logger"
)

// El enrutador implementa los puertos de motor, auth y aprovisionamiento.
var (
	_ warehouse.TxRunnerProvider  = (*TenantRouter)(nil)
	_ auth.UserRepositoryProvider = (*TenantRouter)(nil)
	_ tenant.Provisioner          = (*TenantRouter)(nil)
)

// TenantRouter mantiene un pool de conexiones por tenant. Los pools se crean
// perezosamente desde el catálogo maestro (descifrando la contraseña de la DB
// del tenant) y quedan cacheados para el resto de la vida del proceso.
type TenantRouter struct {
	mu      sync.RWMutex
	pools   map[int64]*pgxpool.Pool
	tenants repository.TenantRepository
	box     *crypto.SecretBox
	log     *logger.Logger
}

// NewTenantRouter construye el enrutador.
func NewTenantRouter(tenants repository.TenantRepository, box *crypto.SecretBox, log *logger.Logger) *TenantRouter {
	return &TenantRouter{
		pools:   make(map[int64]*pgxpool.Pool),
		tenants: tenants,
		box:     box,
		log:     log,
	}
}

// ForTenant devuelve el TxRunner del tenant, conectando su pool si hace falta.
func (r *TenantRouter) ForTenant(ctx context.Context, tenantID int64) (warehouse.TxRunner, error) {
	pool, err := r.poolFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return NewTxRunner(pool), nil
}

// UsersForTenant devuelve el repositorio de usuarios de la base del tenant.
func (r *TenantRouter) UsersForTenant(ctx context.Context, tenantID int64) (repository.UserRepository, error) {
	pool, err := r.poolFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return NewUserRepository(pool), nil
}

func (r *TenantRouter) poolFor(ctx context.Context, tenantID int64) (*pgxpool.Pool, error) {
	r.mu.RLock()
	pool, ok := r.pools[tenantID]
	r.mu.RUnlock()
	if ok {
		return pool, nil
	}

	t, err := r.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Status != entity.TenantStatusActive {
		return nil, domain.ErrTenantNotFound
	}
	dsn, err := r.tenantDSN(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Otra goroutine pudo conectarlo mientras esperábamos el lock.
	if pool, ok := r.pools[tenantID]; ok {
		return pool, nil
	}
	pool, err = NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("conectar tenant %d: %w", tenantID, err)
	}
	r.pools[tenantID] = pool
	r.log.Info().Int64("tenant_id", tenantID).Msg("pool de tenant conectado")
	return pool, nil
}

func (r *TenantRouter) tenantDSN(t *entity.Tenant) (string, error) {
	password, err := r.box.Decrypt(t.DBPasswordEnc)
	if err != nil {
		return "", fmt.Errorf("descifrar contraseña del tenant %d: %w", t.ID, err)
	}
	cfg := config.DBConfig{
		Host:     t.DBHost,
		Port:     t.DBPort,
		User:     t.DBUser,
		Password: password,
		DBName:   t.DBName,
		SSLMode:  "disable",
	}
	return cfg.DSN(), nil
}

// Bootstrap aprovisiona la base del tenant: corre las migraciones embebidas y
// crea el usuario administrador. La base en sí la crea la operación del
// servidor al reservar cupo; aquí solo se puebla.
func (r *TenantRouter) Bootstrap(ctx context.Context, t *entity.Tenant, adminEmail, adminPasswordHash string) error {
	dsn, err := r.tenantDSN(t)
	if err != nil {
		return err
	}
	if err := RunMigrations(dsn); err != nil {
		return fmt.Errorf("migrar tenant %d: %w", t.ID, err)
	}
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("conectar tenant %d: %w", t.ID, err)
	}
	defer pool.Close()
	admin := &entity.User{
		Email:        adminEmail,
		PasswordHash: adminPasswordHash,
		Name:         adminEmail,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    time.Now(),
	}
	if err := NewUserRepository(pool).Create(ctx, admin); err != nil && err != domain.ErrDuplicate {
		return err
	}
	return nil
}

// Register conecta y cachea el pool del tenant recién activado.
func (r *TenantRouter) Register(ctx context.Context, t *entity.Tenant) error {
	_, err := r.poolFor(ctx, t.ID)
	return err
}

// RegisterStatic registra un pool ya construido bajo un id fijo. Lo usa el
// arranque para el tenant de pruebas (999), que no pasa por el catálogo.
func (r *TenantRouter) RegisterStatic(tenantID int64, pool *pgxpool.Pool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[tenantID] = pool
}

// Close cierra todos los pools cacheados.
func (r *TenantRouter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pool := range r.pools {
		pool.Close()
		delete(r.pools, id)
	}
}
