package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User usuario de un tenant (vive en la base de datos del tenant).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"` // active | disabled
	CreatedAt    time.Time `json:"created_at"`
}
