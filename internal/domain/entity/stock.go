package entity

// Stock existencias de un producto en una ubicación, expresadas en una unidad.
// Quantity nunca es negativa. Version es el contador de bloqueo optimista:
// todo UPDATE/DELETE sobre la fila exige la versión leída y la incrementa en 1.
type Stock struct {
	ID         int64 `json:"id"`
	Quantity   int64 `json:"quantity"`
	LocationID int64 `json:"location_id"`
	ProductID  int64 `json:"product_id"`
	UnitID     int64 `json:"unit_id"`
	Version    int64 `json:"version"`
}
