package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// BranchUseCase reglas de negocio para sucursales.
type BranchUseCase struct {
	branchRepo repository.BranchRepository
	engine     *authz.Engine
}

// NewBranchUseCase construye el caso de uso con sus puertos.
func NewBranchUseCase(branchRepo repository.BranchRepository, engine *authz.Engine) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo, engine: engine}
}

// Create crea una sucursal dentro de la empresa del caller. Crear sucursales
// es un recurso de alcance empresa: solo el CEO pasa la política.
func (uc *BranchUseCase) Create(ctx context.Context, claims authz.Claims, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	d := uc.engine.Authorize(claims, authz.ResourceBranch, authz.ActionCreate, authz.ResourceScope{CompanyID: claims.CompanyID})
	if !d.Allowed {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: claims.CompanyID,
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	out := toBranchResponse(branch)
	return &out, nil
}

// GetByID devuelve la sucursal si el scope del caller lo permite; el scope se
// arma con la fila ya leída.
func (uc *BranchUseCase) GetByID(ctx context.Context, claims authz.Claims, id string) (*dto.BranchResponse, error) {
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	d := uc.engine.Authorize(claims, authz.ResourceBranch, authz.ActionRead, authz.ResourceScope{CompanyID: branch.CompanyID, BranchID: branch.ID})
	if !d.Allowed {
		return nil, domain.ErrForbidden
	}
	out := toBranchResponse(branch)
	return &out, nil
}

// ListByCompany lista las sucursales de la empresa del caller.
func (uc *BranchUseCase) ListByCompany(ctx context.Context, claims authz.Claims, page dto.PageRequest) ([]dto.BranchResponse, error) {
	page.DefaultPage()
	branches, err := uc.branchRepo.ListByCompany(ctx, claims.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		// filtrado por fila con el scope de cada sucursal
		d := uc.engine.Authorize(claims, authz.ResourceBranch, authz.ActionRead, authz.ResourceScope{CompanyID: b.CompanyID, BranchID: b.ID})
		if !d.Allowed {
			continue
		}
		out = append(out, toBranchResponse(b))
	}
	return out, nil
}

func toBranchResponse(b *entity.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
