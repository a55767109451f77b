package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// Columnas expuestas en listados de ubicaciones.
var locationListColumns = map[string]string{
	"id":          "id",
	"code":        "code",
	"description": "description",
	"version":     "version",
}

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create inserta una ubicación y asigna el id generado.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	query := `
		INSERT INTO locations (code, description, version)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, loc.Code, loc.Description, loc.Version).Scan(&loc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por id. Devuelve nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*entity.Location, error) {
	query := `SELECT id, code, description, version FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.Code, &l.Description, &l.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// LockByIDs bloquea las ubicaciones en una sola lectura. El ORDER BY id hace
// que toda transacción adquiera los locks en el mismo orden, lo que elimina
// los deadlocks entre operaciones que tocan el mismo par de ubicaciones.
func (r *LocationRepo) LockByIDs(ctx context.Context, ids []int64) ([]*entity.Location, error) {
	query := `
		SELECT id, code, description, version
		FROM locations WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Description, &l.Version); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update aplica el cambio con chequeo de versión e incrementa version.
func (r *LocationRepo) Update(ctx context.Context, loc *entity.Location) error {
	query := `
		UPDATE locations
		SET code = $3, description = $4, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query, loc.ID, loc.Version, loc.Code, loc.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrStockConflict
	}
	loc.Version++
	return nil
}

// Delete elimina con chequeo de versión. Una ubicación con stock no puede
// borrarse (la FK lo impide).
func (r *LocationRepo) Delete(ctx context.Context, id, version int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1 AND version = $2`, id, version)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrLocationNotFound
	}
	return nil
}

// List lista ubicaciones según la gramática de filtros.
func (r *LocationRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Location, error) {
	tail, args, err := buildListSQL(locationListColumns, q)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, code, description, version FROM locations` + tail
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Location, 0)
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Description, &l.Version); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
