package postgres

import (
	"context"
	"fmt"

	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

var _ repository.RegisterRepository = (*RegisterRepo)(nil)

// Columnas expuestas en listados del libro de auditoría.
var registerListColumns = map[string]string{
	"id":                "id",
	"operation_type_id": "operation_type_id",
	"timestamp":         "timestamp",
}

// RegisterRepo libro de auditoría sobre PostgreSQL. Solo INSERT y SELECT:
// la tabla es append-only.
type RegisterRepo struct {
	q Querier
}

// NewRegisterRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewRegisterRepository(q Querier) *RegisterRepo {
	return &RegisterRepo{q: q}
}

// Create inserta un asiento y asigna el id generado.
func (r *RegisterRepo) Create(ctx context.Context, reg *entity.Register) error {
	query := `
		INSERT INTO registers (initial_stock, result_stock, operation_type_id, "timestamp")
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, reg.InitialStock, reg.ResultStock, reg.OperationTypeID, reg.Timestamp).Scan(&reg.ID)
	if err != nil {
		return fmt.Errorf("insert register: %w", err)
	}
	return nil
}

// List lista asientos según la gramática de filtros.
func (r *RegisterRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Register, error) {
	tail, args, err := buildListSQL(registerListColumns, q)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, initial_stock, result_stock, operation_type_id, "timestamp" FROM registers` + tail
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Register, 0)
	for rows.Next() {
		var reg entity.Register
		if err := rows.Scan(&reg.ID, &reg.InitialStock, &reg.ResultStock, &reg.OperationTypeID, &reg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan register: %w", err)
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}
