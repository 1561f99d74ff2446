package migrate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/infrastructure/migrate"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: ledger en memoria y ejecutor programable
// ──────────────────────────────────────────────────────────────────────────────

type fakeLedger struct {
	mu       sync.Mutex
	statuses map[string]migrate.Status
	failures map[string]int // unitID -> posición registrada
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{statuses: make(map[string]migrate.Status), failures: make(map[string]int)}
}

func (l *fakeLedger) EnsureSchema(context.Context) error { return nil }

func (l *fakeLedger) Status(_ context.Context, unitID string) (migrate.Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.statuses[unitID]; ok {
		return s, nil
	}
	return migrate.StatusPending, nil
}

func (l *fakeLedger) MarkApplying(_ context.Context, unitID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses[unitID] = migrate.StatusApplying
	return nil
}

func (l *fakeLedger) MarkApplied(_ context.Context, unitID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses[unitID] = migrate.StatusApplied
	return nil
}

func (l *fakeLedger) MarkFailed(_ context.Context, unitID string, position int, _ error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses[unitID] = migrate.StatusFailed
	l.failures[unitID] = position
	return nil
}

type fakeExecutor struct {
	mu      sync.Mutex
	applied [][]string
	failOn  string // primera sentencia de la unidad que debe fallar
	failAt  int
}

func (e *fakeExecutor) Apply(_ context.Context, statements []string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failOn != "" && len(statements) > 0 && statements[0] == e.failOn {
		return e.failAt, errors.New("syntax error at or near \"CREAT\"")
	}
	e.applied = append(e.applied, statements)
	return -1, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context) error { return nil }
func (noopLocker) Release(context.Context) error { return nil }

func unit(id string, stmts ...string) migrate.Unit {
	return migrate.Unit{ID: id, Statements: stmts}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_AplicaEnOrdenLexicografico(t *testing.T) {
	ledger := newFakeLedger()
	exec := &fakeExecutor{}
	seq := migrate.NewSequencer(ledger, exec, noopLocker{}, nil)

	// se entregan desordenadas a propósito
	applied, err := seq.Run(context.Background(), []migrate.Unit{
		unit("0003_users", "create users"),
		unit("0001_companies", "create companies"),
		unit("0002_branches", "create branches"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	require.Len(t, exec.applied, 3)
	assert.Equal(t, "create companies", exec.applied[0][0])
	assert.Equal(t, "create branches", exec.applied[1][0])
	assert.Equal(t, "create users", exec.applied[2][0])
}

func TestRun_SegundaPasadaNoReaplica(t *testing.T) {
	ledger := newFakeLedger()
	exec := &fakeExecutor{}
	seq := migrate.NewSequencer(ledger, exec, noopLocker{}, nil)
	units := []migrate.Unit{unit("0001_a", "stmt a"), unit("0002_b", "stmt b")}

	applied, err := seq.Run(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	applied, err = seq.Run(context.Background(), units)
	require.NoError(t, err)
	assert.Equal(t, 0, applied, "una unidad aplicada no vuelve a ejecutarse")
	assert.Len(t, exec.applied, 2)
}

func TestRun_FalloRegistraUnidadYPosicion(t *testing.T) {
	ledger := newFakeLedger()
	exec := &fakeExecutor{failOn: "stmt b0", failAt: 1}
	seq := migrate.NewSequencer(ledger, exec, noopLocker{}, nil)

	applied, err := seq.Run(context.Background(), []migrate.Unit{
		unit("0001_a", "stmt a"),
		unit("0002_b", "stmt b0", "stmt b1"),
		unit("0003_c", "stmt c"),
	})
	assert.Equal(t, 1, applied, "lo anterior al fallo queda aplicado")

	var mf *migrate.MigrationFailed
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "0002_b", mf.UnitID)
	assert.Equal(t, 1, mf.Position)
	assert.Error(t, mf.Cause)

	assert.Equal(t, migrate.StatusApplied, ledger.statuses["0001_a"])
	assert.Equal(t, migrate.StatusFailed, ledger.statuses["0002_b"])
	assert.Equal(t, 1, ledger.failures["0002_b"])
	// la unidad posterior nunca se toca
	_, touched := ledger.statuses["0003_c"]
	assert.False(t, touched)
}

func TestRun_UnidadFailedBloqueaPasadasFuturas(t *testing.T) {
	ledger := newFakeLedger()
	exec := &fakeExecutor{failOn: "stmt b", failAt: 0}
	seq := migrate.NewSequencer(ledger, exec, noopLocker{}, nil)
	units := []migrate.Unit{unit("0001_a", "stmt a"), unit("0002_b", "stmt b"), unit("0003_c", "stmt c")}

	_, err := seq.Run(context.Background(), units)
	require.Error(t, err)

	// segunda pasada con el ejecutor ya "arreglado": el estado failed sigue
	// bloqueando hasta resolución manual
	exec.failOn = ""
	applied, err := seq.Run(context.Background(), units)
	assert.Equal(t, 0, applied)
	var mf *migrate.MigrationFailed
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "0002_b", mf.UnitID)
}

func TestRun_UnidadAbandonadaEnApplyingBloquea(t *testing.T) {
	ledger := newFakeLedger()
	ledger.statuses["0001_a"] = migrate.StatusApplying // pasada anterior murió aquí
	seq := migrate.NewSequencer(ledger, &fakeExecutor{}, noopLocker{}, nil)

	_, err := seq.Run(context.Background(), []migrate.Unit{unit("0001_a", "stmt a")})
	var mf *migrate.MigrationFailed
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "0001_a", mf.UnitID)
	assert.Equal(t, -1, mf.Position)
}

func TestRun_IdentificadorDuplicadoEsError(t *testing.T) {
	seq := migrate.NewSequencer(newFakeLedger(), &fakeExecutor{}, noopLocker{}, nil)
	_, err := seq.Run(context.Background(), []migrate.Unit{unit("0001_a", "x"), unit("0001_a", "y")})
	assert.Error(t, err)
}

func TestUnits_EsquemaPrecedeASiembra(t *testing.T) {
	units := migrate.Units()
	idx := make(map[string]int, len(units))
	for i, u := range units {
		idx[u.ID] = i
	}
	assert.Less(t, idx["0005_create_policy_rules"], idx["0006_seed_policy_rules"])
	assert.Less(t, idx["0001_create_companies"], idx["0003_create_users"])
}
