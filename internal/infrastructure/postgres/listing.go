package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// Paginación por defecto y tope de los listados.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// buildListSQL construye la cola de un SELECT (WHERE/ORDER BY/LIMIT/OFFSET) a
// partir de la gramática de listado property:rule:value. Solo admite las
// propiedades del whitelist (nombre expuesto -> columna); cualquier propiedad
// o regla desconocida falla con ErrInvalidInput para no interpolar entrada del
// cliente en el SQL.
func buildListSQL(allowed map[string]string, q repository.ListQuery) (string, []any, error) {
	var sb strings.Builder
	var args []any

	if len(q.Filters) > 0 {
		sb.WriteString(" WHERE ")
		for i, f := range q.Filters {
			col, ok := allowed[f.Property]
			if !ok {
				return "", nil, domain.ErrInvalidInput
			}
			if i > 0 {
				sb.WriteString(" AND ")
			}
			clause, err := filterClause(col, f, &args)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(clause)
		}
	}

	orderCol := "id"
	if q.SortBy != "" {
		col, ok := allowed[q.SortBy]
		if !ok {
			return "", nil, domain.ErrInvalidInput
		}
		orderCol = col
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", orderCol, direction))

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, skip)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args, nil
}

func filterClause(col string, f repository.Filter, args *[]any) (string, error) {
	switch f.Rule {
	case repository.RuleEq, repository.RuleNeq, repository.RuleGt, repository.RuleGte, repository.RuleLt, repository.RuleLte:
		*args = append(*args, castValue(f.Value))
		return fmt.Sprintf("%s %s $%d", col, sqlOperator(f.Rule), len(*args)), nil
	case repository.RuleLike:
		*args = append(*args, "%"+f.Value+"%")
		return fmt.Sprintf("%s::text ILIKE $%d", col, len(*args)), nil
	case repository.RuleNlike:
		*args = append(*args, "%"+f.Value+"%")
		return fmt.Sprintf("%s::text NOT ILIKE $%d", col, len(*args)), nil
	case repository.RuleIn, repository.RuleNin:
		values := strings.Split(f.Value, ",")
		if len(values) == 0 {
			return "", domain.ErrInvalidInput
		}
		placeholders := make([]string, 0, len(values))
		for _, v := range values {
			*args = append(*args, castValue(strings.TrimSpace(v)))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(*args)))
		}
		op := "IN"
		if f.Rule == repository.RuleNin {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")), nil
	case repository.RuleIsNull:
		return fmt.Sprintf("%s IS NULL", col), nil
	case repository.RuleIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", col), nil
	default:
		return "", domain.ErrInvalidInput
	}
}

func sqlOperator(rule string) string {
	switch rule {
	case repository.RuleEq:
		return "="
	case repository.RuleNeq:
		return "<>"
	case repository.RuleGt:
		return ">"
	case repository.RuleGte:
		return ">="
	case repository.RuleLt:
		return "<"
	case repository.RuleLte:
		return "<="
	}
	return "="
}

// castValue intenta tipar el valor textual del filtro para que el driver envíe
// el tipo correcto (las columnas numéricas no comparan contra text).
func castValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
