package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/auth"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	pkgjwt "github.com/longsangsabo2025/SABOHUB-sub001/pkg/jwt"
)

const testSecret = "hook-test-secret"

func testJWTConfig() auth.JWTConfig {
	return auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "sabohub-test"}
}

// slowResolver simula un resolver colgado (p. ej. DB sin responder).
type slowResolver struct {
	delay  time.Duration
	claims authz.Claims
	err    error
}

func (s *slowResolver) Resolve(ctx context.Context, _ string) (authz.Claims, error) {
	select {
	case <-time.After(s.delay):
		return s.claims, s.err
	case <-ctx.Done():
		return authz.Claims{}, ctx.Err()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TokenIssuerHook
// ──────────────────────────────────────────────────────────────────────────────

// Camino feliz: el token emitido carga exactamente los claims resueltos.
func TestOnIssue_TokenCargaLosClaims(t *testing.T) {
	user := &entity.User{ID: "u1", CompanyID: "c1", BranchID: "b1", Role: entity.RoleBranchManager, Status: "active"}
	resolver := auth.NewClaimsResolver(newFakeUserRepo(user), newFakeCompanyRepo("c1"))
	hook := auth.NewTokenIssuerHook(resolver, testJWTConfig(), time.Second)

	token, claims, err := hook.OnIssue(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := pkgjwt.Parse(testSecret, token)
	require.NoError(t, err, "el token emitido debe verificar con el mismo secret")
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, "c1", parsed.CompanyID)
	assert.Equal(t, "b1", parsed.BranchID)
	assert.Equal(t, entity.RoleBranchManager, parsed.Role)
}

// Idempotencia: dos invocaciones con la misma entrada producen los mismos
// claims (los tokens difieren solo en iat/exp).
func TestOnIssue_Idempotente(t *testing.T) {
	user := &entity.User{ID: "u1", CompanyID: "c1", BranchID: "b1", Role: entity.RoleStaff, Status: "active"}
	resolver := auth.NewClaimsResolver(newFakeUserRepo(user), newFakeCompanyRepo("c1"))
	hook := auth.NewTokenIssuerHook(resolver, testJWTConfig(), time.Second)

	_, c1, err := hook.OnIssue(context.Background(), "u1")
	require.NoError(t, err)
	_, c2, err := hook.OnIssue(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, c1.UserID, c2.UserID)
	assert.Equal(t, c1.CompanyID, c2.CompanyID)
	assert.Equal(t, c1.BranchID, c2.BranchID)
	assert.Equal(t, c1.Role, c2.Role)
}

// Timeout duro: resolver lento → fallar cerrado, ningún token.
func TestOnIssue_TimeoutFallaCerrado(t *testing.T) {
	hook := auth.NewTokenIssuerHook(&slowResolver{delay: 500 * time.Millisecond}, testJWTConfig(), 20*time.Millisecond)

	start := time.Now()
	token, _, err := hook.OnIssue(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrEnrichmentTimeout)
	assert.Empty(t, token, "en timeout no debe emitirse token alguno")
	assert.Less(t, time.Since(start), 400*time.Millisecond, "el hook debe cortar al vencer el timeout, no esperar al resolver")
}

// Los fallos del resolver se propagan y niegan la emisión.
func TestOnIssue_PropagaFallosDelResolver(t *testing.T) {
	huerfano := &entity.User{ID: "u1", Role: entity.RoleStaff, BranchID: "b1", Status: "active"}
	resolver := auth.NewClaimsResolver(newFakeUserRepo(huerfano), newFakeCompanyRepo())
	hook := auth.NewTokenIssuerHook(resolver, testJWTConfig(), time.Second)

	token, _, err := hook.OnIssue(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrCompanyUnlinked)
	assert.Empty(t, token)
}
