package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
	"github.com/nuplus/warehouses-api/pkg/crypto"
)

// bcrypt trunca a 72 bytes; contraseñas más largas se rechazan en vez de
// truncarse en silencio.
const maxPasswordBytes = 72

// Provisioner puerto de aprovisionamiento de la base de datos de un tenant:
// esquema, catálogo, usuario administrador y registro del pool en el enrutador.
type Provisioner interface {
	Bootstrap(ctx context.Context, t *entity.Tenant, adminEmail, adminPasswordHash string) error
	Register(ctx context.Context, t *entity.Tenant) error
}

// UseCase ciclo de vida de tenants: alta con código de activación y
// activación con aprovisionamiento de su base de datos.
type UseCase struct {
	tenantRepo  repository.TenantRepository
	provisioner Provisioner
	box         *crypto.SecretBox
}

// NewUseCase construye el caso de uso.
func NewUseCase(tenantRepo repository.TenantRepository, provisioner Provisioner, box *crypto.SecretBox) *UseCase {
	return &UseCase{tenantRepo: tenantRepo, provisioner: provisioner, box: box}
}

// Signup da de alta un tenant en estado pending: hashea la contraseña del
// administrador, reserva un servidor de DB con cupo, genera la contraseña de
// la base del tenant y la guarda cifrada. La activación queda pendiente del
// código emitido.
func (uc *UseCase) Signup(ctx context.Context, in dto.SignupTenantRequest) (*dto.SignupTenantResponse, error) {
	if in.Name == "" || in.AdminEmail == "" || in.AdminPassword == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.AdminPassword) > maxPasswordBytes {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), 12)
	if err != nil {
		return nil, err
	}
	server, err := uc.tenantRepo.ReserveServer(ctx)
	if err != nil {
		return nil, err
	}
	dbPassword, err := crypto.RandomPassword(16)
	if err != nil {
		return nil, err
	}
	encPassword, err := uc.box.Encrypt(dbPassword)
	if err != nil {
		return nil, err
	}
	code := uuid.New().String()
	t := &entity.Tenant{
		Name:              in.Name,
		AdminEmail:        in.AdminEmail,
		AdminPasswordHash: string(hash),
		DBHost:            server.Host,
		DBPort:            server.Port,
		DBUser:            "tenant_owner",
		DBPasswordEnc:     encPassword,
		Status:            entity.TenantStatusPending,
		ActivationCode:    code,
		CreatedAt:         time.Now(),
	}
	if err := uc.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return &dto.SignupTenantResponse{TenantID: t.ID, ActivationCode: code}, nil
}

// Activate valida el código, aprovisiona la base del tenant (esquema, catálogo
// y usuario administrador), marca el tenant activo y registra su pool en el
// enrutador de conexiones.
func (uc *UseCase) Activate(ctx context.Context, in dto.ActivateTenantRequest) (*entity.Tenant, error) {
	if in.ActivationCode == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.tenantRepo.GetByActivationCode(ctx, in.ActivationCode)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	if t.Status == entity.TenantStatusActive {
		return t, nil
	}
	if err := uc.provisioner.Bootstrap(ctx, t, t.AdminEmail, t.AdminPasswordHash); err != nil {
		return nil, err
	}
	if err := uc.tenantRepo.Activate(ctx, t.ID); err != nil {
		return nil, err
	}
	t.Status = entity.TenantStatusActive
	if err := uc.provisioner.Register(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
