package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/invitation"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/usecase"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// Ensure TxRunner implements invitation.RedeemTxRunner.
var _ invitation.RedeemTxRunner = (*TxRunner)(nil)
var _ usecase.BootstrapTxRunner = (*bootstrapRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para el canje de invitaciones (consumo + alta de
// usuario), ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El rollback deja la invitación sin consumir: consumo y alta son atómicos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvitationRepository(tx), NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// bootstrapRunner adapta TxRunner al puerto del bootstrap de empresa.
type bootstrapRunner struct {
	pool *pgxpool.Pool
}

// NewBootstrapTxRunner construye el runner para el bootstrap empresa+CEO.
func NewBootstrapTxRunner(pool *pgxpool.Pool) usecase.BootstrapTxRunner {
	return &bootstrapRunner{pool: pool}
}

func (r *bootstrapRunner) Run(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCompanyRepository(tx), NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
