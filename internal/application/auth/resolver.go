package auth

import (
	"context"
	"time"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// ClaimsResolver calcula el conjunto de claims de un usuario en el momento de
// emitir el token. Solo lecturas, solo lookups directos por clave (usuario por
// ID, existencia de empresa por ID): tiempo acotado e independiente del tamaño
// de las tablas. Jamás pasa por la capa de políticas para resolverse a sí
// mismo.
//
// Los claims son un snapshot: un cambio de rol aplica en el próximo login.
type ClaimsResolver struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewClaimsResolver construye el resolver con sus puertos de lectura.
func NewClaimsResolver(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *ClaimsResolver {
	return &ClaimsResolver{userRepo: userRepo, companyRepo: companyRepo}
}

// Resolve devuelve los claims del usuario o falla cerrado:
//   - usuario inexistente → domain.ErrUserNotFound
//   - sin empresa vinculada, o empresa inexistente → domain.ErrCompanyUnlinked
//   - rol distinto de ceo sin sucursal asignada → domain.ErrBranchUnassigned
//
// Nunca se emiten claims parciales: ante jerarquía incompleta el caller debe
// negar la emisión del token.
func (r *ClaimsResolver) Resolve(ctx context.Context, userID string) (authz.Claims, error) {
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return authz.Claims{}, err
	}
	if user == nil {
		return authz.Claims{}, domain.ErrUserNotFound
	}
	if user.CompanyID == "" {
		return authz.Claims{}, domain.ErrCompanyUnlinked
	}
	exists, err := r.companyRepo.Exists(ctx, user.CompanyID)
	if err != nil {
		return authz.Claims{}, err
	}
	if !exists {
		// company_id apunta a una empresa que ya no existe: datos rotos,
		// se niega en vez de emitir claims a medias.
		return authz.Claims{}, domain.ErrCompanyUnlinked
	}
	if user.Role != entity.RoleCEO && user.BranchID == "" {
		return authz.Claims{}, domain.ErrBranchUnassigned
	}
	return authz.Claims{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		BranchID:  user.BranchID,
		IssuedAt:  time.Now(),
	}, nil
}
