package entity

// Unit unidad de medida. BaseUnit es el escalar de conversión a la unidad base:
// una unidad con BaseUnit=10 agrupa 10 unidades base (ej. caja de 10 piezas).
type Unit struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	BaseUnit    int64  `json:"base_unit"`
	Version     int64  `json:"version"`
}
