package warehouse

import "github.com/nuplus/warehouses-api/internal/domain"

// Conversion resultado de reexpresar una cantidad en otra unidad.
// La aritmética se hace en unidades base: para qty unidades de una unidad con
// escalar fromBase, convertidas hacia una unidad con escalar toBase,
//
//	Converted    = floor(qty*fromBase / toBase)
//	RemainderSrc = lo que no alcanzó a convertirse, reexpresado en la unidad origen
//
// y se cumple qty*fromBase == Converted*toBase + RemainderSrc*fromBase.
type Conversion struct {
	Converted    int64
	RemainderSrc int64
}

// convert calcula la conversión entre unidades. Falla con ErrInvalidQuantity
// si qty es negativa o los escalares no son positivos, y con
// ErrIncompatibleUnits si el resto no es representable en la unidad origen
// (fromBase no divide al resto en unidades base).
func convert(qty, fromBase, toBase int64) (Conversion, error) {
	if qty < 0 || fromBase < 1 || toBase < 1 {
		return Conversion{}, domain.ErrInvalidQuantity
	}
	base := qty * fromBase
	converted := base / toBase
	remainderBase := base % toBase
	if remainderBase%fromBase != 0 {
		return Conversion{}, domain.ErrIncompatibleUnits
	}
	return Conversion{Converted: converted, RemainderSrc: remainderBase / fromBase}, nil
}
