package repository

import (
	"context"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
)

// PolicyRuleRepository carga el conjunto de reglas persistido (sembrado por
// las migraciones) con el que se construye el motor de políticas al arranque.
type PolicyRuleRepository interface {
	List(ctx context.Context) ([]authz.PolicyRule, error)
}
