package repository

import (
	"context"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
//
// La unicidad de CEO por empresa se hace cumplir en el adaptador con una
// escritura condicional respaldada por un índice único parcial: la violación
// llega aquí como domain.ErrRoleConflict, de forma síncrona con el insert o
// update, nunca como una reconciliación posterior.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// AssignRole cambia el rol en una sola sentencia condicional.
	// role=ceo con un CEO ya existente en la empresa → domain.ErrRoleConflict.
	AssignRole(ctx context.Context, userID, role string) error
	// AssignBranch mueve al usuario de sucursal (misma empresa, validado en el use case).
	AssignBranch(ctx context.Context, userID, branchID string) error
}
