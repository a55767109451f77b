package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

//go:embed migrations/*.sql migrations_master/*.sql
var embedMigrations embed.FS

// RunMigrations aplica las migraciones embebidas del esquema de tenant.
// Goose necesita database/sql, así que se abre una conexión puntual con el
// driver stdlib de pgx y se cierra al terminar.
func RunMigrations(dsn string) error {
	return runMigrations(dsn, "migrations")
}

// RunMasterMigrations aplica las migraciones del catálogo maestro
// (tenants y db_servers).
func RunMasterMigrations(dsn string) error {
	return runMigrations(dsn, "migrations_master")
}

func runMigrations(dsn, dir string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("abrir conexión de migración: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SeedTestTenant siembra los datos mínimos del tenant de pruebas: unidades
// UNIT1 (base 1) y UNIT10 (base 10), ubicaciones 1 y 2, producto 1 y un
// usuario administrador con credenciales conocidas. Idempotente.
func SeedTestTenant(ctx context.Context, q Querier, adminPasswordHash string) error {
	statements := []string{
		`INSERT INTO units (id, code, description, base_unit, version) VALUES (1, 'UNIT1', 'Unidad suelta', 1, 1) ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO units (id, code, description, base_unit, version) VALUES (2, 'UNIT10', 'Caja de 10', 10, 1) ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO locations (id, code, description, version) VALUES (1, 'LOC-1', 'Ubicación de prueba 1', 1) ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO locations (id, code, description, version) VALUES (2, 'LOC-2', 'Ubicación de prueba 2', 1) ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO products (id, code, description) VALUES (1, 'PROD-1', 'Producto de prueba') ON CONFLICT (id) DO NOTHING`,
		`SELECT setval('units_id_seq', GREATEST((SELECT MAX(id) FROM units), 1))`,
		`SELECT setval('locations_id_seq', GREATEST((SELECT MAX(id) FROM locations), 1))`,
		`SELECT setval('products_id_seq', GREATEST((SELECT MAX(id) FROM products), 1))`,
	}
	for _, st := range statements {
		if _, err := q.Exec(ctx, st); err != nil {
			return fmt.Errorf("seed tenant de pruebas: %w", err)
		}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO users (email, password_hash, name, role, status, created_at)
		VALUES ('admin@test.local', $1, 'Test Admin', $2, 'active', now())
		ON CONFLICT (email) DO NOTHING`,
		adminPasswordHash, entity.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("seed usuario de pruebas: %w", err)
	}
	return nil
}
