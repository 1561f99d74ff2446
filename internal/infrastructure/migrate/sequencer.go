// Package migrate implementa el secuenciador de migraciones de esquema y
// políticas: unidades nombradas y ordenadas, aplicadas exactamente una vez,
// con un ledger durable como único estado propio.
package migrate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/logger"
)

// Status estados de una unidad en el ledger.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApplying Status = "applying"
	StatusApplied  Status = "applied"
	StatusFailed   Status = "failed"
)

// Unit es una unidad de migración: identificador único ordenable (prefijo
// numérico con ceros a la izquierda) y su cuerpo SQL. Una unidad se registra
// como aplicada solo después de que TODO su cuerpo terminó bien.
type Unit struct {
	ID         string
	Statements []string
}

// Ledger es el registro durable (unit_id, status, applied_at, error_detail).
type Ledger interface {
	EnsureSchema(ctx context.Context) error
	Status(ctx context.Context, unitID string) (Status, error)
	MarkApplying(ctx context.Context, unitID string) error
	MarkApplied(ctx context.Context, unitID string) error
	MarkFailed(ctx context.Context, unitID string, position int, cause error) error
}

// Executor aplica el cuerpo de una unidad de forma atómica (una transacción).
// En fallo devuelve la posición (índice de sentencia) donde ocurrió.
type Executor interface {
	Apply(ctx context.Context, statements []string) (position int, err error)
}

// Locker exclusión mutua entre pasadas concurrentes del secuenciador
// (advisory lock en la base). La pasada entera corre bajo el lock.
type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// MigrationFailed describe el fallo de una unidad: identificador, posición
// dentro del cuerpo y causa. Suficiente para que un operador retome.
type MigrationFailed struct {
	UnitID   string
	Position int // índice de la sentencia que falló; -1 si no aplica
	Cause    error
}

func (e *MigrationFailed) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("migración %s falló en la sentencia %d: %v", e.UnitID, e.Position, e.Cause)
	}
	return fmt.Sprintf("migración %s falló: %v", e.UnitID, e.Cause)
}

func (e *MigrationFailed) Unwrap() error { return e.Cause }

// Sequencer aplica unidades en orden, exactamente una vez cada una.
// Una pasada es single-threaded y corre bajo exclusión mutua: mutex en
// proceso más el Locker contra pasadas de otros procesos.
type Sequencer struct {
	ledger Ledger
	exec   Executor
	locker Locker
	log    *logger.Logger

	mu sync.Mutex
}

// NewSequencer construye el secuenciador.
func NewSequencer(ledger Ledger, exec Executor, locker Locker, log *logger.Logger) *Sequencer {
	return &Sequencer{ledger: ledger, exec: exec, locker: locker, log: log}
}

// Run ejecuta una pasada sobre units:
//   - unidades "applied" se saltan (idempotencia por unidad);
//   - una unidad "failed" (o abandonada en "applying" por una pasada que
//     murió) bloquea la pasada antes de tocar unidades posteriores: requiere
//     resolución manual;
//   - una unidad que falla a mitad de cuerpo queda "failed" con posición y
//     causa en el ledger; no hay rollback automático de unidades previas.
//
// Devuelve cuántas unidades se aplicaron en esta pasada.
func (s *Sequencer) Run(ctx context.Context, units []Unit) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateUnits(units); err != nil {
		return 0, err
	}
	ordered := make([]Unit, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	if err := s.locker.Acquire(ctx); err != nil {
		return 0, fmt.Errorf("adquirir lock de migraciones: %w", err)
	}
	defer func() {
		if err := s.locker.Release(ctx); err != nil && s.log != nil {
			s.log.Error().Err(err).Msg("liberar lock de migraciones")
		}
	}()

	if err := s.ledger.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("preparar ledger: %w", err)
	}

	applied := 0
	for _, unit := range ordered {
		status, err := s.ledger.Status(ctx, unit.ID)
		if err != nil {
			return applied, fmt.Errorf("consultar ledger para %s: %w", unit.ID, err)
		}
		switch status {
		case StatusApplied:
			continue
		case StatusFailed:
			return applied, &MigrationFailed{UnitID: unit.ID, Position: -1,
				Cause: fmt.Errorf("unidad en estado failed; requiere resolución manual antes de continuar")}
		case StatusApplying:
			// una pasada anterior murió a mitad de esta unidad: puede haber
			// quedado aplicada a medias, se trata igual que failed
			return applied, &MigrationFailed{UnitID: unit.ID, Position: -1,
				Cause: fmt.Errorf("unidad abandonada en estado applying; requiere resolución manual")}
		}

		if err := s.ledger.MarkApplying(ctx, unit.ID); err != nil {
			return applied, fmt.Errorf("marcar applying %s: %w", unit.ID, err)
		}
		if s.log != nil {
			s.log.Info().Str("unit", unit.ID).Msg("aplicando migración")
		}
		if pos, err := s.exec.Apply(ctx, unit.Statements); err != nil {
			if lerr := s.ledger.MarkFailed(ctx, unit.ID, pos, err); lerr != nil && s.log != nil {
				s.log.Error().Err(lerr).Str("unit", unit.ID).Msg("registrar fallo en el ledger")
			}
			return applied, &MigrationFailed{UnitID: unit.ID, Position: pos, Cause: err}
		}
		if err := s.ledger.MarkApplied(ctx, unit.ID); err != nil {
			return applied, fmt.Errorf("marcar applied %s: %w", unit.ID, err)
		}
		applied++
	}
	return applied, nil
}

func validateUnits(units []Unit) error {
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.ID == "" {
			return fmt.Errorf("unidad de migración sin identificador")
		}
		if seen[u.ID] {
			return fmt.Errorf("identificador de unidad duplicado: %s", u.ID)
		}
		seen[u.ID] = true
	}
	return nil
}
