package dto

import "github.com/shopspring/decimal"

// CreateLocationRequest alta de ubicación.
type CreateLocationRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// UpdateLocationRequest actualización con chequeo de versión.
type UpdateLocationRequest struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Version     int64  `json:"version"`
}

// DeleteLocationRequest baja con chequeo de versión.
type DeleteLocationRequest struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version"`
}

// CreateStockRequest alta de stock.
type CreateStockRequest struct {
	Quantity   int64 `json:"quantity"`
	LocationID int64 `json:"location_id"`
	ProductID  int64 `json:"product_id"`
	UnitID     int64 `json:"unit_id"`
}

// UpdateStockRequest actualización parcial con chequeo de versión.
// Los punteros distinguen "no enviado" de cero.
type UpdateStockRequest struct {
	ID         int64  `json:"id"`
	Quantity   *int64 `json:"quantity"`
	LocationID *int64 `json:"location_id"`
	ProductID  *int64 `json:"product_id"`
	UnitID     *int64 `json:"unit_id"`
	Version    int64  `json:"version"`
}

// DeleteStockRequest baja con chequeo de versión.
type DeleteStockRequest struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version"`
}

// FusionStockRequest fusiona el stock origen dentro del destino.
type FusionStockRequest struct {
	StockOriginID      int64 `json:"stock_origin_id"`
	StockDestinationID int64 `json:"stock_destination_id"`
}

// DivideStockRequest separa quantity unidades en una fila nueva.
type DivideStockRequest struct {
	StockID  int64 `json:"stock_id"`
	Quantity int64 `json:"quantity"`
}

// RegroupStockRequest agrupa o desagrupa un stock hacia otra unidad.
type RegroupStockRequest struct {
	StockID int64 `json:"stock_id"`
	UnitID  int64 `json:"unit_id"`
}

// ChangeLocationRequest mueve un stock a otra ubicación.
type ChangeLocationRequest struct {
	StockID    int64 `json:"stock_id"`
	LocationID int64 `json:"location_id"`
}

// CountLocationResponse total de existencias de una ubicación.
type CountLocationResponse struct {
	LocationID int64           `json:"location_id"`
	Total      decimal.Decimal `json:"total"`
}
