// Package invitation implementa la emisión y el canje de invitaciones:
// el único camino de mutación concurrente caliente del núcleo.
package invitation

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

// DefaultExpiry vigencia por defecto de una invitación.
const DefaultExpiry = 72 * time.Hour

// RedeemTxRunner ejecuta el canje (consumo + alta de usuario) dentro de una
// única transacción, con repos atados a la tx.
type RedeemTxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InvitationRepository,
		userRepo repository.UserRepository,
	) error) error
}

// UseCase casos de uso de invitaciones.
type UseCase struct {
	invRepo    repository.InvitationRepository
	branchRepo repository.BranchRepository
	txRunner   RedeemTxRunner
}

// NewUseCase construye el caso de uso de invitaciones.
func NewUseCase(invRepo repository.InvitationRepository, branchRepo repository.BranchRepository, txRunner RedeemTxRunner) *UseCase {
	return &UseCase{invRepo: invRepo, branchRepo: branchRepo, txRunner: txRunner}
}

// Create emite una invitación. Reglas:
//   - el rol invitado nunca excede el alcance del emisor: ceo invita
//     branch_manager/shift_leader/staff; branch_manager invita
//     shift_leader/staff y solo hacia su propia sucursal;
//   - el rol ceo jamás se invita (se crea en el bootstrap de la empresa);
//   - la sucursal destino debe existir y pertenecer a la empresa del emisor.
func (uc *UseCase) Create(ctx context.Context, claims authz.Claims, in dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	if !entity.ValidRole(in.RoleType) || in.RoleType == entity.RoleCEO {
		return nil, domain.ErrInvalidInput
	}

	branchID := in.BranchID
	switch claims.Role {
	case entity.RoleCEO:
		// puede invitar a cualquier sucursal de su empresa
	case entity.RoleBranchManager:
		if in.RoleType == entity.RoleBranchManager {
			return nil, domain.ErrForbidden
		}
		if branchID == "" {
			branchID = claims.BranchID
		}
		if branchID != claims.BranchID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}

	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != claims.CompanyID {
		return nil, domain.ErrNotFound
	}

	expiry := DefaultExpiry
	if in.ExpiresIn > 0 {
		expiry = time.Duration(in.ExpiresIn) * time.Hour
	}
	now := time.Now()
	inv := &entity.Invitation{
		ID:        uuid.New().String(),
		Code:      uuid.New().String(),
		RoleType:  in.RoleType,
		CompanyID: claims.CompanyID,
		BranchID:  branchID,
		CreatedBy: claims.UserID,
		ExpiresAt: now.Add(expiry),
		CreatedAt: now,
	}
	if err := uc.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInvitationResponse(inv), nil
}

// Redeem canjea una invitación: consume el código de forma exactamente-una-vez
// y provisiona al usuario (rol/empresa/sucursal tomados de la invitación) en
// la misma transacción. Resultados: Consumed(role, company_id) o
// ErrInvitationNotFound / ErrExpired / ErrAlreadyUsed.
//
// Bajo canjes concurrentes del mismo código exactamente uno gana; los demás
// reciben ErrAlreadyUsed como resultado normal de negocio.
func (uc *UseCase) Redeem(ctx context.Context, in dto.RedeemRequest) (*dto.RedeemResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := uuid.New().String()
	var out *dto.RedeemResponse
	err = uc.txRunner.Run(ctx, func(invRepo repository.InvitationRepository, userRepo repository.UserRepository) error {
		now := time.Now()
		inv, err := invRepo.Consume(ctx, in.Code, userID, now)
		if err != nil {
			return err
		}

		name := in.Name
		if name == "" {
			name = in.Email
		}
		user := &entity.User{
			ID:           userID,
			CompanyID:    inv.CompanyID,
			BranchID:     inv.BranchID,
			Email:        in.Email,
			PasswordHash: string(hash),
			Name:         name,
			Role:         inv.RoleType,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			// el rollback deja la invitación sin consumir
			return err
		}
		out = &dto.RedeemResponse{
			Role:      inv.RoleType,
			CompanyID: inv.CompanyID,
			BranchID:  inv.BranchID,
			User:      *auth.ToUserResponse(user),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toInvitationResponse(i *entity.Invitation) *dto.InvitationResponse {
	return &dto.InvitationResponse{
		ID:        i.ID,
		Code:      i.Code,
		RoleType:  i.RoleType,
		CompanyID: i.CompanyID,
		BranchID:  i.BranchID,
		CreatedBy: i.CreatedBy,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}
}
