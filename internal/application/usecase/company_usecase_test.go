package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/usecase"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
}

func newMemCompanyRepo(companies ...*entity.Company) *memCompanyRepo {
	m := make(map[string]*entity.Company)
	for _, c := range companies {
		m[c.ID] = c
	}
	return &memCompanyRepo{companies: m}
}

func (r *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.companies[id], nil
}

func (r *memCompanyRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.companies[id]
	return ok, nil
}

func (r *memCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	return nil, nil
}

type memBootstrapTx struct {
	companies *memCompanyRepo
	users     *memUserRepo
}

func (r *memBootstrapTx) Run(ctx context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	return fn(r.companies, r.users)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Bootstrap
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrap_CreaEmpresaYCEOJuntos(t *testing.T) {
	companies := newMemCompanyRepo()
	users := newMemUserRepo()
	uc := usecase.NewCompanyUseCase(companies, &memBootstrapTx{companies: companies, users: users}, authz.NewEngine(authz.DefaultRules()))

	out, err := uc.Bootstrap(context.Background(), dto.CreateCompanyRequest{
		Name: "SABO Clubs", Email: "ceo@sabohub.com", Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleCEO, out.CEO.Role)
	assert.Equal(t, out.Company.ID, out.CEO.CompanyID)
	assert.Empty(t, out.CEO.BranchID, "el CEO tiene alcance de empresa, sin sucursal")
	assert.Equal(t, out.CEO.ID, out.Company.CreatedBy, "created_by queda poblado en la misma transacción")

	stored, err := companies.GetByID(context.Background(), out.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, out.CEO.ID, stored.CreatedBy)
}

func TestBootstrap_EntradaInvalida(t *testing.T) {
	companies := newMemCompanyRepo()
	users := newMemUserRepo()
	uc := usecase.NewCompanyUseCase(companies, &memBootstrapTx{companies: companies, users: users}, authz.NewEngine(authz.DefaultRules()))

	_, err := uc.Bootstrap(context.Background(), dto.CreateCompanyRequest{Name: "", Email: "x@x.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyGetByID_CEOPropiaEmpresa(t *testing.T) {
	companies := newMemCompanyRepo(&entity.Company{ID: "c1", Name: "SABO", Status: "active"})
	users := newMemUserRepo()
	uc := usecase.NewCompanyUseCase(companies, &memBootstrapTx{companies: companies, users: users}, authz.NewEngine(authz.DefaultRules()))

	out, err := uc.GetByID(context.Background(), ceoClaims("c1"), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)

	// empresa ajena: Deny se traduce en ErrForbidden, sin resultados parciales
	_, err = uc.GetByID(context.Background(), ceoClaims("c2"), "c1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
