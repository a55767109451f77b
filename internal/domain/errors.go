package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrLocationNotFound  = errors.New("la ubicación no existe")
	ErrStockNotFound     = errors.New("el stock no existe")
	ErrUnitNotFound      = errors.New("la unidad no existe")
	ErrProductNotFound   = errors.New("el producto no existe")
	ErrTenantNotFound    = errors.New("el tenant no existe")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrStockConflict     = errors.New("conflicto de versión en stock")
	ErrIncompatibleUnits = errors.New("los stocks no se pueden fusionar")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)
