package dto

// SignupTenantRequest alta de un tenant nuevo.
type SignupTenantRequest struct {
	Name          string `json:"name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// SignupTenantResponse resultado del alta: el código de activación se envía
// por fuera de banda en producción; aquí se devuelve para los flujos de prueba.
type SignupTenantResponse struct {
	TenantID       int64  `json:"tenant_id"`
	ActivationCode string `json:"activation_code"`
}

// ActivateTenantRequest activación con el código emitido en el alta.
type ActivateTenantRequest struct {
	ActivationCode string `json:"activation_code"`
}
