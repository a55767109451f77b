package repository

// Reglas de filtrado admitidas en listados (gramática property:rule:value).
const (
	RuleEq        = "eq"
	RuleNeq       = "neq"
	RuleGt        = "gt"
	RuleGte       = "gte"
	RuleLt        = "lt"
	RuleLte       = "lte"
	RuleLike      = "like"
	RuleNlike     = "nlike"
	RuleIn        = "in"
	RuleNin       = "nin"
	RuleIsNull    = "isnull"
	RuleIsNotNull = "isnotnull"
)

// Filter condición individual de un listado.
type Filter struct {
	Property string
	Rule     string
	Value    string
}

// ListQuery parámetros de listado: filtros (AND), orden y paginación.
type ListQuery struct {
	Filters  []Filter
	SortBy   string
	SortDesc bool
	Skip     int
	Limit    int
}
