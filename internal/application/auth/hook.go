package auth

import (
	"context"
	"time"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/pkg/jwt"
)

// claimsResolver es el contrato mínimo que necesita el hook; lo implementa
// *ClaimsResolver.
type claimsResolver interface {
	Resolve(ctx context.Context, userID string) (authz.Claims, error)
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenIssuerHook corre sincrónicamente en el camino de emisión de tokens:
// resuelve los claims y los incrusta en el JWT firmado. Acotado por un timeout
// duro; vencido el plazo se falla cerrado (ningún token) en lugar de emitir un
// token con menos claims de los debidos. Sin estado: re-invocarlo con la misma
// entrada produce claims idénticos salvo cambios concurrentes.
//
// Decisión de despliegue: cualquier fallo del resolver niega la emisión.
// No se emiten tokens "sin claims".
type TokenIssuerHook struct {
	resolver claimsResolver
	jwtCfg   JWTConfig
	timeout  time.Duration
}

// NewTokenIssuerHook construye el hook. timeout <= 0 usa 2s.
func NewTokenIssuerHook(resolver claimsResolver, jwtCfg JWTConfig, timeout time.Duration) *TokenIssuerHook {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &TokenIssuerHook{resolver: resolver, jwtCfg: jwtCfg, timeout: timeout}
}

type resolveResult struct {
	claims authz.Claims
	err    error
}

// OnIssue resuelve los claims del usuario y devuelve el token enriquecido.
// Propaga los fallos del resolver; si la resolución no termina dentro del
// timeout retorna domain.ErrEnrichmentTimeout.
func (h *TokenIssuerHook) OnIssue(ctx context.Context, userID string) (string, authz.Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	ch := make(chan resolveResult, 1)
	go func() {
		claims, err := h.resolver.Resolve(ctx, userID)
		ch <- resolveResult{claims: claims, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", authz.Claims{}, domain.ErrEnrichmentTimeout
	case res := <-ch:
		if res.err != nil {
			return "", authz.Claims{}, res.err
		}
		token, err := jwt.Generate(
			h.jwtCfg.Secret,
			res.claims.UserID, res.claims.CompanyID, res.claims.BranchID, res.claims.Role,
			h.jwtCfg.Issuer, h.jwtCfg.ExpMinutes,
		)
		if err != nil {
			return "", authz.Claims{}, err
		}
		return token, res.claims, nil
	}
}
