package repository

import (
	"context"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// Exists es el lookup directo por clave que usa el Claims Resolver:
	// tiempo acotado, sin scans.
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}
