package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo catálogo maestro de tenants. Opera siempre sobre la base maestra,
// nunca sobre las bases de los tenants.
type TenantRepo struct {
	pool *pgxpool.Pool
}

// NewTenantRepository construye el adaptador del catálogo maestro.
func NewTenantRepository(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

const tenantColumns = `id, name, admin_email, admin_password_hash, db_host, db_port, db_name, db_user, db_password_enc, status, activation_code, created_at`

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.AdminEmail, &t.AdminPasswordHash,
		&t.DBHost, &t.DBPort, &t.DBName, &t.DBUser, &t.DBPasswordEnc,
		&t.Status, &t.ActivationCode, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Create inserta el tenant y asigna id y nombre de base (tenant_<id>).
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (name, admin_email, admin_password_hash, db_host, db_port, db_name, db_user, db_password_enc, status, activation_code, created_at)
		VALUES ($1, $2, $3, $4, $5, '', $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		t.Name, t.AdminEmail, t.AdminPasswordHash,
		t.DBHost, t.DBPort, t.DBUser, t.DBPasswordEnc,
		t.Status, t.ActivationCode, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	t.DBName = fmt.Sprintf("tenant_%d", t.ID)
	if _, err := r.pool.Exec(ctx, `UPDATE tenants SET db_name = $2 WHERE id = $1`, t.ID, t.DBName); err != nil {
		return fmt.Errorf("set tenant db name: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por id. Devuelve nil si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id int64) (*entity.Tenant, error) {
	t, err := scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetByActivationCode obtiene un tenant por código de activación.
func (r *TenantRepo) GetByActivationCode(ctx context.Context, code string) (*entity.Tenant, error) {
	t, err := scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE activation_code = $1`, code))
	if err != nil {
		return nil, fmt.Errorf("get tenant by code: %w", err)
	}
	return t, nil
}

// Activate marca el tenant como activo.
func (r *TenantRepo) Activate(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tenants SET status = 'active' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate tenant: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// ReserveServer elige el servidor con cupo libre bloqueando su fila e
// incrementa assigned en la misma transacción. El FOR UPDATE evita que dos
// altas concurrentes reserven el último cupo del mismo servidor.
func (r *TenantRepo) ReserveServer(ctx context.Context) (*entity.DBServer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var s entity.DBServer
	err = tx.QueryRow(ctx, `
		SELECT id, host, port, capacity, assigned
		FROM db_servers
		WHERE assigned < capacity
		ORDER BY assigned ASC
		LIMIT 1
		FOR UPDATE`).Scan(&s.ID, &s.Host, &s.Port, &s.Capacity, &s.Assigned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no hay servidores de DB con cupo disponible")
		}
		return nil, fmt.Errorf("reserve db server: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE db_servers SET assigned = assigned + 1 WHERE id = $1`, s.ID); err != nil {
		return nil, fmt.Errorf("increment assigned: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	s.Assigned++
	return &s, nil
}
