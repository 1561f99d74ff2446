package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/usecase"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. AssignRole replica el contrato del adaptador real: una
// sola operación condicional bajo lock, respaldada en PostgreSQL por el índice
// único parcial "un CEO por empresa".
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	m := make(map[string]*entity.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &memUserRepo{users: m}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.Role == entity.RoleCEO && e.CompanyID == u.CompanyID && e.Role == entity.RoleCEO {
			return domain.ErrRoleConflict
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.User
	for _, u := range r.users {
		if u.CompanyID == companyID {
			cp := *u
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) AssignRole(_ context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if role == entity.RoleCEO {
		for _, u := range r.users {
			if u.ID != userID && u.CompanyID == target.CompanyID && u.Role == entity.RoleCEO {
				return domain.ErrRoleConflict
			}
		}
	}
	target.Role = role
	return nil
}

func (r *memUserRepo) AssignBranch(_ context.Context, userID, branchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	target.BranchID = branchID
	return nil
}

type memBranchRepo struct {
	mu       sync.Mutex
	branches map[string]*entity.Branch
}

func newMemBranchRepo(branches ...*entity.Branch) *memBranchRepo {
	m := make(map[string]*entity.Branch)
	for _, b := range branches {
		m[b.ID] = b
	}
	return &memBranchRepo{branches: m}
}

func (r *memBranchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.branches[b.ID] = b
	return nil
}

func (r *memBranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.branches[id], nil
}

func (r *memBranchRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Branch
	for _, b := range r.branches {
		if b.CompanyID == companyID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (r *memBranchRepo) Update(_ context.Context, _ *entity.Branch) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Tests AssignRole
// ──────────────────────────────────────────────────────────────────────────────

func ceoClaims(companyID string) authz.Claims {
	return authz.Claims{UserID: "ceo-1", Role: entity.RoleCEO, CompanyID: companyID, IssuedAt: time.Now()}
}

func staffUser(id, companyID, branchID string) *entity.User {
	return &entity.User{
		ID: id, CompanyID: companyID, BranchID: branchID,
		Email: id + "@sabohub.com", Role: entity.RoleStaff, Status: "active",
	}
}

func TestAssignRole_PromocionSimple(t *testing.T) {
	users := newMemUserRepo(staffUser("u1", "c1", "b1"))
	uc := usecase.NewUserUseCase(users, newMemBranchRepo(), authz.NewEngine(authz.DefaultRules()))

	out, err := uc.AssignRole(context.Background(), ceoClaims("c1"), "u1", dto.AssignRoleRequest{Role: entity.RoleShiftLeader})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleShiftLeader, out.Role)
}

func TestAssignRole_SegundoCEOEsRoleConflict(t *testing.T) {
	actual := staffUser("u-ceo", "c1", "")
	actual.Role = entity.RoleCEO
	users := newMemUserRepo(actual, staffUser("u2", "c1", "b1"))
	uc := usecase.NewUserUseCase(users, newMemBranchRepo(), authz.NewEngine(authz.DefaultRules()))

	_, err := uc.AssignRole(context.Background(), ceoClaims("c1"), "u2", dto.AssignRoleRequest{Role: entity.RoleCEO})
	assert.ErrorIs(t, err, domain.ErrRoleConflict, "una empresa con CEO no admite otro")
}

func TestAssignRole_SoloCEOAsignaRoles(t *testing.T) {
	users := newMemUserRepo(staffUser("u1", "c1", "b1"))
	uc := usecase.NewUserUseCase(users, newMemBranchRepo(), authz.NewEngine(authz.DefaultRules()))

	manager := authz.Claims{UserID: "bm", Role: entity.RoleBranchManager, CompanyID: "c1", BranchID: "b1"}
	_, err := uc.AssignRole(context.Background(), manager, "u1", dto.AssignRoleRequest{Role: entity.RoleShiftLeader})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAssignRole_OtraEmpresaEsForbidden(t *testing.T) {
	users := newMemUserRepo(staffUser("u1", "c2", "b9"))
	uc := usecase.NewUserUseCase(users, newMemBranchRepo(), authz.NewEngine(authz.DefaultRules()))

	_, err := uc.AssignRole(context.Background(), ceoClaims("c1"), "u1", dto.AssignRoleRequest{Role: entity.RoleShiftLeader})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el CEO no alcanza usuarios de otra empresa")
}

// Propiedad central: 5 promociones concurrentes a CEO en una empresa sin CEO →
// exactamente 1 éxito y 4 RoleConflict.
//
// Escenario: el CEO saliente ya fue degradado en la tabla, pero su token
// vigente aún porta claims de ceo (los claims son un snapshot hasta el próximo
// login). Con ese token intenta nombrar cinco sucesores a la vez.
func TestAssignRole_CEOUnicoBajoConcurrencia(t *testing.T) {
	users := newMemUserRepo(
		staffUser("u1", "c1", "b1"),
		staffUser("u2", "c1", "b1"),
		staffUser("u3", "c1", "b2"),
		staffUser("u4", "c1", "b2"),
		staffUser("u5", "c1", "b1"),
	)
	uc := usecase.NewUserUseCase(users, newMemBranchRepo(), authz.NewEngine(authz.DefaultRules()))

	var promoted, conflicts int64
	var g errgroup.Group
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		id := id
		g.Go(func() error {
			_, err := uc.AssignRole(context.Background(), ceoClaims("c1"), id, dto.AssignRoleRequest{Role: entity.RoleCEO})
			switch {
			case err == nil:
				atomic.AddInt64(&promoted, 1)
			case err == domain.ErrRoleConflict:
				atomic.AddInt64(&conflicts, 1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, promoted, "exactamente una promoción debe ganar")
	assert.EqualValues(t, 4, conflicts, "las demás reciben RoleConflict de forma síncrona")

	ceos := 0
	users.mu.Lock()
	for _, u := range users.users {
		if u.CompanyID == "c1" && u.Role == entity.RoleCEO {
			ceos++
		}
	}
	users.mu.Unlock()
	assert.Equal(t, 1, ceos, "en estado estable hay exactamente un CEO por empresa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AssignBranch
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignBranch_MismaEmpresa(t *testing.T) {
	users := newMemUserRepo(staffUser("u1", "c1", "b1"))
	branches := newMemBranchRepo(&entity.Branch{ID: "b2", CompanyID: "c1", Status: "active"})
	uc := usecase.NewUserUseCase(users, branches, authz.NewEngine(authz.DefaultRules()))

	out, err := uc.AssignBranch(context.Background(), ceoClaims("c1"), "u1", dto.AssignBranchRequest{BranchID: "b2"})
	require.NoError(t, err)
	assert.Equal(t, "b2", out.BranchID)
}

func TestAssignBranch_SucursalDeOtraEmpresa(t *testing.T) {
	users := newMemUserRepo(staffUser("u1", "c1", "b1"))
	branches := newMemBranchRepo(&entity.Branch{ID: "bx", CompanyID: "c2", Status: "active"})
	uc := usecase.NewUserUseCase(users, branches, authz.NewEngine(authz.DefaultRules()))

	_, err := uc.AssignBranch(context.Background(), ceoClaims("c1"), "u1", dto.AssignBranchRequest{BranchID: "bx"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "no se asignan sucursales de otra empresa")
}
