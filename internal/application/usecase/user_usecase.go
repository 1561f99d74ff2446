package usecase

import (
	"context"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/auth"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// UserUseCase reglas de negocio para usuarios: asignación de rol y sucursal.
type UserUseCase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	engine     *authz.Engine
}

// NewUserUseCase construye el caso de uso con sus puertos.
func NewUserUseCase(userRepo repository.UserRepository, branchRepo repository.BranchRepository, engine *authz.Engine) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, branchRepo: branchRepo, engine: engine}
}

// AssignRole cambia el rol del usuario destino. La unicidad de CEO se hace
// cumplir en el write, de forma síncrona: ante intentos concurrentes de
// promover dos CEO en la misma empresa, exactamente uno gana y el resto
// recibe ErrRoleConflict. La verificación nunca se "apaga" para cargas
// masivas.
func (uc *UserUseCase) AssignRole(ctx context.Context, claims authz.Claims, userID string, in dto.AssignRoleRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	// cambiar roles (y en particular nombrar CEO o gerentes) es potestad del CEO
	if claims.Role != entity.RoleCEO {
		return nil, domain.ErrForbidden
	}

	target, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	d := uc.engine.Authorize(claims, authz.ResourceUser, authz.ActionUpdate, authz.ResourceScope{CompanyID: target.CompanyID, BranchID: target.BranchID})
	if !d.Allowed {
		return nil, domain.ErrForbidden
	}

	if err := uc.userRepo.AssignRole(ctx, userID, in.Role); err != nil {
		return nil, err
	}

	// el cambio aplica en el próximo login: los tokens vigentes conservan el
	// snapshot de claims con el que fueron emitidos
	target.Role = in.Role
	return auth.ToUserResponse(target), nil
}

// AssignBranch mueve al usuario a otra sucursal de la misma empresa.
func (uc *UserUseCase) AssignBranch(ctx context.Context, claims authz.Claims, userID string, in dto.AssignBranchRequest) (*dto.UserResponse, error) {
	target, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	d := uc.engine.Authorize(claims, authz.ResourceUser, authz.ActionUpdate, authz.ResourceScope{CompanyID: target.CompanyID, BranchID: target.BranchID})
	if !d.Allowed {
		return nil, domain.ErrForbidden
	}

	branch, err := uc.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != target.CompanyID {
		return nil, domain.ErrNotFound
	}

	if err := uc.userRepo.AssignBranch(ctx, userID, in.BranchID); err != nil {
		return nil, err
	}
	target.BranchID = in.BranchID
	return auth.ToUserResponse(target), nil
}

// ListByCompany lista los usuarios de la empresa del caller, filtrados por fila
// con el scope de cada usuario.
func (uc *UserUseCase) ListByCompany(ctx context.Context, claims authz.Claims, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.userRepo.ListByCompany(ctx, claims.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		d := uc.engine.Authorize(claims, authz.ResourceUser, authz.ActionRead, authz.ResourceScope{CompanyID: u.CompanyID, BranchID: u.BranchID})
		if !d.Allowed {
			continue
		}
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}
