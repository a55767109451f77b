package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
	"github.com/nuplus/warehouses-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UserRepositoryProvider resuelve el repositorio de usuarios de un tenant
// (los usuarios viven en la base de datos de cada tenant).
type UserRepositoryProvider interface {
	UsersForTenant(ctx context.Context, tenantID int64) (repository.UserRepository, error)
}

// UseCase autenticación: login contra la base del tenant y emisión de JWT.
type UseCase struct {
	users  UserRepositoryProvider
	jwtCfg JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(users UserRepositoryProvider, jwtCfg JWTConfig) *UseCase {
	return &UseCase{users: users, jwtCfg: jwtCfg}
}

// Login verifica email/password contra la base del tenant, genera JWT y
// retorna token + usuario.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.TenantID == 0 || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	userRepo, err := uc.users.UsersForTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	user, err := userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, in.TenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
