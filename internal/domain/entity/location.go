package entity

// Location representa una ubicación física de almacén.
// Version es el contador de bloqueo optimista: cada update exitoso lo incrementa en 1.
type Location struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Version     int64  `json:"version"`
}
