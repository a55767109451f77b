package tenant_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/application/tenant"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/pkg/crypto"
)

const testMasterKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeTenantRepo struct {
	byID   map[int64]*entity.Tenant
	byCode map[string]*entity.Tenant
	nextID int64
	server *entity.DBServer
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		byID:   make(map[int64]*entity.Tenant),
		byCode: make(map[string]*entity.Tenant),
		nextID: 1,
		server: &entity.DBServer{ID: 1, Host: "db-1.internal", Port: 5432, Capacity: 10},
	}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	t.ID = r.nextID
	r.nextID++
	r.byID[t.ID] = t
	r.byCode[t.ActivationCode] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id int64) (*entity.Tenant, error) {
	return r.byID[id], nil
}

func (r *fakeTenantRepo) GetByActivationCode(_ context.Context, code string) (*entity.Tenant, error) {
	return r.byCode[code], nil
}

func (r *fakeTenantRepo) Activate(_ context.Context, id int64) error {
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Status = entity.TenantStatusActive
	return nil
}

func (r *fakeTenantRepo) ReserveServer(_ context.Context) (*entity.DBServer, error) {
	r.server.Assigned++
	cp := *r.server
	return &cp, nil
}

type fakeProvisioner struct {
	bootstrapped []int64
	registered   []int64
	bootstrapErr error
}

func (p *fakeProvisioner) Bootstrap(_ context.Context, t *entity.Tenant, _, _ string) error {
	if p.bootstrapErr != nil {
		return p.bootstrapErr
	}
	p.bootstrapped = append(p.bootstrapped, t.ID)
	return nil
}

func (p *fakeProvisioner) Register(_ context.Context, t *entity.Tenant) error {
	p.registered = append(p.registered, t.ID)
	return nil
}

func newTenantUC(t *testing.T) (*tenant.UseCase, *fakeTenantRepo, *fakeProvisioner) {
	t.Helper()
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)
	repo := newFakeTenantRepo()
	prov := &fakeProvisioner{}
	return tenant.NewUseCase(repo, prov, box), repo, prov
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_CreaTenantPendiente(t *testing.T) {
	uc, repo, prov := newTenantUC(t)

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme Bodegas",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)
	require.NotZero(t, out.TenantID)
	assert.NotEmpty(t, out.ActivationCode)

	created := repo.byID[out.TenantID]
	require.NotNil(t, created)
	assert.Equal(t, entity.TenantStatusPending, created.Status)
	assert.Equal(t, "db-1.internal", created.DBHost)
	assert.Empty(t, prov.bootstrapped, "el alta no aprovisiona: eso ocurre en la activación")
}

func TestSignup_HasheaPasswordDelAdmin(t *testing.T) {
	uc, repo, _ := newTenantUC(t)

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)

	created := repo.byID[out.TenantID]
	assert.NotEqual(t, "s3cr3ta", created.AdminPasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.AdminPasswordHash), []byte("s3cr3ta")))
}

// La contraseña de la DB del tenant se guarda cifrada y recuperable con la clave maestra.
func TestSignup_CifraPasswordDeLaDB(t *testing.T) {
	box, err := crypto.NewSecretBox(testMasterKey)
	require.NoError(t, err)
	repo := newFakeTenantRepo()
	uc := tenant.NewUseCase(repo, &fakeProvisioner{}, box)

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)

	created := repo.byID[out.TenantID]
	require.NotEmpty(t, created.DBPasswordEnc)

	plain, err := box.Decrypt(created.DBPasswordEnc)
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.NotEqual(t, created.DBPasswordEnc, plain)
}

func TestSignup_CamposVacios(t *testing.T) {
	uc, _, _ := newTenantUC(t)

	_, err := uc.Signup(context.Background(), dto.SignupTenantRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// bcrypt trunca a 72 bytes; mejor rechazar que truncar en silencio.
func TestSignup_PasswordDemasiadoLarga(t *testing.T) {
	uc, _, _ := newTenantUC(t)

	_, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: strings.Repeat("x", 73),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Activate
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_AprovisionaYActiva(t *testing.T) {
	uc, repo, prov := newTenantUC(t)

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)

	activated, err := uc.Activate(context.Background(), dto.ActivateTenantRequest{
		ActivationCode: out.ActivationCode,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TenantStatusActive, activated.Status)
	assert.Equal(t, entity.TenantStatusActive, repo.byID[out.TenantID].Status)
	assert.Equal(t, []int64{out.TenantID}, prov.bootstrapped)
	assert.Equal(t, []int64{out.TenantID}, prov.registered)
}

// Activar dos veces con el mismo código es idempotente: la segunda no vuelve a
// aprovisionar.
func TestActivate_Idempotente(t *testing.T) {
	uc, _, prov := newTenantUC(t)

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)

	_, err = uc.Activate(context.Background(), dto.ActivateTenantRequest{ActivationCode: out.ActivationCode})
	require.NoError(t, err)
	again, err := uc.Activate(context.Background(), dto.ActivateTenantRequest{ActivationCode: out.ActivationCode})
	require.NoError(t, err)

	assert.Equal(t, entity.TenantStatusActive, again.Status)
	assert.Len(t, prov.bootstrapped, 1, "el segundo Activate no vuelve a aprovisionar")
}

func TestActivate_CodigoInvalido(t *testing.T) {
	uc, _, _ := newTenantUC(t)

	_, err := uc.Activate(context.Background(), dto.ActivateTenantRequest{ActivationCode: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestActivate_CodigoVacio(t *testing.T) {
	uc, _, _ := newTenantUC(t)

	_, err := uc.Activate(context.Background(), dto.ActivateTenantRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si el aprovisionamiento falla, el tenant sigue pendiente y puede reintentar.
func TestActivate_FalloDeBootstrap_NoActiva(t *testing.T) {
	uc, repo, prov := newTenantUC(t)
	prov.bootstrapErr = assert.AnError

	out, err := uc.Signup(context.Background(), dto.SignupTenantRequest{
		Name:          "Acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "s3cr3ta",
	})
	require.NoError(t, err)

	_, err = uc.Activate(context.Background(), dto.ActivateTenantRequest{ActivationCode: out.ActivationCode})
	require.Error(t, err)

	assert.Equal(t, entity.TenantStatusPending, repo.byID[out.TenantID].Status)
	assert.Empty(t, prov.registered)
}
