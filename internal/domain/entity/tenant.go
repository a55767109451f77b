package entity

import "time"

// Estados del ciclo de vida de un tenant.
const (
	TenantStatusPending = "pending"
	TenantStatusActive  = "active"
)

// Tenant registro del catálogo maestro. DBPasswordEnc guarda la contraseña de la
// base de datos del tenant cifrada con AES-GCM (ver pkg/crypto).
type Tenant struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	AdminEmail        string    `json:"admin_email"`
	AdminPasswordHash string    `json:"-"`
	DBHost            string    `json:"-"`
	DBPort            int       `json:"-"`
	DBName            string    `json:"-"`
	DBUser            string    `json:"-"`
	DBPasswordEnc     string    `json:"-"`
	Status            string    `json:"status"`
	ActivationCode    string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// DBServer servidor de base de datos disponible para aprovisionar tenants.
// Capacity es el número máximo de tenants que admite; Assigned los ya asignados.
type DBServer struct {
	ID       int64
	Host     string
	Port     int
	Capacity int
	Assigned int
}
