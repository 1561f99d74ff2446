package postgres

import (
	"context"
	"fmt"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/authz"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

var _ repository.PolicyRuleRepository = (*PolicyRuleRepo)(nil)

// PolicyRuleRepo carga el conjunto de reglas sembrado por las migraciones.
// Se lee una vez al arranque para construir el motor; la evaluación posterior
// es puramente en memoria.
type PolicyRuleRepo struct {
	db DB
}

// NewPolicyRuleRepository construye el adaptador; acepta pool o tx.
func NewPolicyRuleRepository(db DB) *PolicyRuleRepo {
	return &PolicyRuleRepo{db: db}
}

// List devuelve todas las filas de policy_rules como reglas del motor.
func (r *PolicyRuleRepo) List(ctx context.Context) ([]authz.PolicyRule, error) {
	rows, err := r.db.Query(ctx, `SELECT resource, action, role FROM policy_rules ORDER BY resource, action, role`)
	if err != nil {
		return nil, fmt.Errorf("list policy rules: %w", err)
	}
	defer rows.Close()
	var list []authz.PolicyRule
	for rows.Next() {
		var resource, action, role string
		if err := rows.Scan(&resource, &action, &role); err != nil {
			return nil, fmt.Errorf("scan policy rule: %w", err)
		}
		list = append(list, authz.PolicyRule{Resource: resource, Action: action, Roles: []string{role}})
	}
	return list, rows.Err()
}
