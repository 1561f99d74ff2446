package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/migrate"
)

// migrationLockKey clave fija del advisory lock que serializa pasadas del
// secuenciador entre procesos.
const migrationLockKey = 748271102

var (
	_ migrate.Ledger   = (*MigrationStore)(nil)
	_ migrate.Executor = (*MigrationStore)(nil)
	_ migrate.Locker   = (*MigrationStore)(nil)
)

// MigrationStore implementa el ledger, el ejecutor y el lock del secuenciador
// sobre el pool. El advisory lock vive en una conexión fijada: pg_advisory_lock
// y su unlock deben viajar por la MISMA conexión o el unlock no libera nada.
type MigrationStore struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// NewMigrationStore construye el almacén de migraciones.
func NewMigrationStore(pool *pgxpool.Pool) *MigrationStore {
	return &MigrationStore{pool: pool}
}

// Acquire fija una conexión del pool y toma el advisory lock; bloquea hasta
// obtenerlo o hasta que el contexto expire.
func (s *MigrationStore) Acquire(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		conn.Release()
		return fmt.Errorf("advisory lock: %w", err)
	}
	s.conn = conn
	return nil
}

// Release libera el advisory lock y devuelve la conexión al pool.
func (s *MigrationStore) Release(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	defer func() {
		s.conn.Release()
		s.conn = nil
	}()
	if _, err := s.conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("advisory unlock: %w", err)
	}
	return nil
}

// EnsureSchema crea la tabla del ledger si no existe.
func (s *MigrationStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migration_ledger (
			unit_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			applied_at TIMESTAMPTZ,
			error_detail TEXT
		)`)
	if err != nil {
		return fmt.Errorf("create migration_ledger: %w", err)
	}
	return nil
}

// Status devuelve el estado registrado de una unidad; pending si no hay fila.
func (s *MigrationStore) Status(ctx context.Context, unitID string) (migrate.Status, error) {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM migration_ledger WHERE unit_id = $1`, unitID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return migrate.StatusPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("ledger status %s: %w", unitID, err)
	}
	return migrate.Status(status), nil
}

// MarkApplying registra el inicio de una unidad antes de tocar el esquema.
func (s *MigrationStore) MarkApplying(ctx context.Context, unitID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO migration_ledger (unit_id, status) VALUES ($1, $2)
		ON CONFLICT (unit_id) DO UPDATE SET status = $2, error_detail = NULL`,
		unitID, migrate.StatusApplying)
	if err != nil {
		return fmt.Errorf("mark applying %s: %w", unitID, err)
	}
	return nil
}

// MarkApplied registra el éxito de una unidad.
func (s *MigrationStore) MarkApplied(ctx context.Context, unitID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE migration_ledger SET status = $2, applied_at = now() WHERE unit_id = $1`,
		unitID, migrate.StatusApplied)
	if err != nil {
		return fmt.Errorf("mark applied %s: %w", unitID, err)
	}
	return nil
}

// MarkFailed registra el fallo con la posición de la sentencia y su causa.
func (s *MigrationStore) MarkFailed(ctx context.Context, unitID string, position int, cause error) error {
	detail := fmt.Sprintf("sentencia %d: %v", position, cause)
	_, err := s.pool.Exec(ctx, `
		UPDATE migration_ledger SET status = $2, error_detail = $3 WHERE unit_id = $1`,
		unitID, migrate.StatusFailed, detail)
	if err != nil {
		return fmt.Errorf("mark failed %s: %w", unitID, err)
	}
	return nil
}

// Apply ejecuta el cuerpo de una unidad dentro de una sola transacción.
// Si una sentencia falla devuelve su índice y hace rollback de la unidad
// completa; las unidades previas ya confirmadas no se revierten.
func (s *MigrationStore) Apply(ctx context.Context, statements []string) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return -1, fmt.Errorf("begin migration tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return i, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return -1, fmt.Errorf("commit migration tx: %w", err)
	}
	return -1, nil
}
