package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

// InvitationRepo implementación del puerto InvitationRepository sobre PostgreSQL.
type InvitationRepo struct {
	db DB
}

// NewInvitationRepository construye el adaptador; acepta pool o tx.
func NewInvitationRepository(db DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

const invitationColumns = `id, invitation_code, role_type, company_id, branch_id, created_by, expires_at, used_at, used_by, created_at`

// Create persiste una nueva invitación.
func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	query := `
		INSERT INTO invitations (id, invitation_code, role_type, company_id, branch_id, created_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.Code, inv.RoleType, inv.CompanyID, nullable(inv.BranchID), inv.CreatedBy,
		inv.ExpiresAt, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetByCode obtiene una invitación por su código.
func (r *InvitationRepo) GetByCode(ctx context.Context, code string) (*entity.Invitation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE invitation_code = $1`, code)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation by code: %w", err)
	}
	return inv, nil
}

// Consume marca la invitación como usada con UN solo update condicional:
// used_at se fija únicamente si sigue en NULL y la invitación no venció.
// Nada de read-then-write: bajo N canjes concurrentes la base serializa y
// exactamente uno actualiza la fila. El que no actualizó clasifica después:
// inexistente, vencida o ya usada.
func (r *InvitationRepo) Consume(ctx context.Context, code, usedBy string, now time.Time) (*entity.Invitation, error) {
	query := `
		UPDATE invitations
		SET used_at = $3, used_by = $2
		WHERE invitation_code = $1 AND used_at IS NULL AND expires_at > $3
		RETURNING ` + invitationColumns
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, code, usedBy, now))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("consume invitation: %w", err)
	}

	// La fila no se actualizó: clasificar el motivo para el caller.
	existing, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch {
	case existing == nil:
		return nil, domain.ErrInvitationNotFound
	case existing.Expired(now):
		// el vencimiento manda: una invitación vencida es Expired aunque
		// used_at siga en NULL
		return nil, domain.ErrExpired
	default:
		return nil, domain.ErrAlreadyUsed
	}
}

func scanInvitation(row pgx.Row) (*entity.Invitation, error) {
	var i entity.Invitation
	var branchID, usedBy *string
	err := row.Scan(
		&i.ID, &i.Code, &i.RoleType, &i.CompanyID, &branchID, &i.CreatedBy,
		&i.ExpiresAt, &i.UsedAt, &usedBy, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.BranchID = deref(branchID)
	i.UsedBy = deref(usedBy)
	return &i, nil
}
