package repository

import (
	"context"
	"time"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// InvitationRepository define el puerto de persistencia para Invitation.
type InvitationRepository interface {
	Create(ctx context.Context, inv *entity.Invitation) error
	GetByCode(ctx context.Context, code string) (*entity.Invitation, error)
	// Consume marca la invitación como usada de forma exactamente-una-vez:
	// un único update condicional (used_at solo si es NULL y no venció),
	// jamás read-then-write. Bajo N intentos concurrentes, exactamente uno
	// recibe la invitación; el resto, domain.ErrAlreadyUsed / ErrExpired /
	// ErrInvitationNotFound según corresponda.
	Consume(ctx context.Context, code, usedBy string, now time.Time) (*entity.Invitation, error)
}
