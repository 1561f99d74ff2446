package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/auth"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// BootstrapTxRunner ejecuta el bootstrap de empresa dentro de una transacción.
type BootstrapTxRunner interface {
	Run(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// CompanyUseCase reglas de negocio para empresas.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	txRunner    BootstrapTxRunner
	engine      *authz.Engine
}

// NewCompanyUseCase construye el caso de uso con sus puertos.
func NewCompanyUseCase(companyRepo repository.CompanyRepository, txRunner BootstrapTxRunner, engine *authz.Engine) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, txRunner: txRunner, engine: engine}
}

// Bootstrap crea la empresa y su CEO en una sola transacción: created_by solo
// es nulo dentro de esa ventana, nunca en estado estable. Así no hacen falta
// scripts de reparación que vinculen huérfanos después.
func (uc *CompanyUseCase) Bootstrap(ctx context.Context, in dto.CreateCompanyRequest) (*dto.BootstrapResponse, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	name := in.CEOName
	if name == "" {
		name = in.Email
	}
	ceo := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleCEO,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		if err := userRepo.Create(ctx, ceo); err != nil {
			return err
		}
		company.CreatedBy = ceo.ID
		return companyRepo.Update(ctx, company)
	})
	if err != nil {
		return nil, err
	}

	return &dto.BootstrapResponse{
		Company: toCompanyResponse(company),
		CEO:     *auth.ToUserResponse(ceo),
	}, nil
}

// GetByID devuelve la empresa si el scope del caller lo permite.
func (uc *CompanyUseCase) GetByID(ctx context.Context, claims authz.Claims, id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	// scope desde la fila ya leída, nunca re-consultando vía políticas
	d := uc.engine.Authorize(claims, authz.ResourceCompany, authz.ActionRead, authz.ResourceScope{CompanyID: company.ID})
	if !d.Allowed {
		return nil, domain.ErrForbidden
	}
	out := toCompanyResponse(company)
	return &out, nil
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
