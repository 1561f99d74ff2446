package repository

import (
	"context"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
}
