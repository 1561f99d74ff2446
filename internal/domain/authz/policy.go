// Package authz centraliza las decisiones de autorización del sistema.
// El motor es una función pura sobre (claims, recurso, acción, scope): cero
// I/O, cero lookups, evaluable por fila en tiempo de lectura sin riesgo de
// auto-referencia.
package authz

import "github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"

// Tipos de recurso protegidos por el motor. Los servicios de datos externos
// son dueños del CRUD; aquí solo se decide Allow/Deny.
const (
	ResourceCompany    = "companies"
	ResourceBranch     = "branches"
	ResourceUser       = "users"
	ResourceInvitation = "invitations"
	ResourceOrder      = "orders"
	ResourceInventory  = "inventory"
	ResourceShift      = "shifts"
	ResourceReport     = "reports"
)

// Acciones sobre recursos.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PolicyRule es una fila del conjunto de reglas: concede (resource, action) a
// los roles listados, siempre dentro del alcance que la jerarquía les asigna.
// Se persiste en policy_rules y se carga al arranque; DefaultRules() es el
// equivalente compilado de la semilla de migración.
type PolicyRule struct {
	Resource string
	Action   string
	Roles    []string
}

// Decision es el resultado de Authorize. Deny es un resultado válido de
// negocio, nunca un error.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Engine evalúa políticas de acceso por fila. Los roles amplios son superset
// de los estrechos dentro de la misma empresa; ningún rol cruza empresas.
type Engine struct {
	// staffAllow[resource][action]: lista fija de acciones permitidas a staff
	// dentro de su propia sucursal. Todo lo no listado es Deny.
	staffAllow map[string]map[string]bool
}

// NewEngine construye el motor a partir del conjunto de reglas. Las reglas
// solo amplían a staff: branch_manager y shift_leader ya obtienen todo su
// alcance por jerarquía, y ceo todo el de la empresa.
func NewEngine(rules []PolicyRule) *Engine {
	staff := make(map[string]map[string]bool)
	for _, r := range rules {
		for _, role := range r.Roles {
			if role != entity.RoleStaff {
				continue
			}
			if staff[r.Resource] == nil {
				staff[r.Resource] = make(map[string]bool)
			}
			staff[r.Resource][r.Action] = true
		}
	}
	return &Engine{staffAllow: staff}
}

// DefaultRules devuelve el conjunto de reglas con el que se siembra la tabla
// policy_rules: el allow-list de staff (lecturas operativas y registro de
// órdenes en su propia sucursal).
func DefaultRules() []PolicyRule {
	staff := []string{entity.RoleStaff}
	return []PolicyRule{
		{Resource: ResourceOrder, Action: ActionRead, Roles: staff},
		{Resource: ResourceOrder, Action: ActionCreate, Roles: staff},
		{Resource: ResourceInventory, Action: ActionRead, Roles: staff},
		{Resource: ResourceShift, Action: ActionRead, Roles: staff},
		{Resource: ResourceBranch, Action: ActionRead, Roles: staff},
	}
}

// Authorize decide si claims permite action sobre un recurso con el scope
// dado. Es total: cualquier combinación (rol, acción) no mapeada resuelve
// Deny, nunca error.
//
// Orden de evaluación:
//  1. scope o claims sin empresa → Deny (fallar cerrado).
//  2. empresa distinta → Deny sin importar rol ni acción.
//  3. ceo → Allow en toda su empresa, la sucursal es irrelevante.
//  4. branch_manager / shift_leader → Allow si empresa y sucursal coinciden.
//  5. staff → Allow solo para el allow-list, en su propia sucursal.
//  6. Deny por defecto.
func (e *Engine) Authorize(claims Claims, resource, action string, scope ResourceScope) Decision {
	if claims.CompanyID == "" || scope.CompanyID == "" {
		return deny("alcance incompleto")
	}
	if claims.CompanyID != scope.CompanyID {
		return deny("empresa distinta")
	}

	switch claims.Role {
	case entity.RoleCEO:
		return allow("ceo: alcance de empresa")

	case entity.RoleBranchManager, entity.RoleShiftLeader:
		if scope.BranchID != "" && scope.BranchID == claims.BranchID {
			return allow(claims.Role + ": misma sucursal")
		}
		return deny("sucursal distinta")

	case entity.RoleStaff:
		if scope.BranchID == "" || scope.BranchID != claims.BranchID {
			return deny("sucursal distinta")
		}
		if e.staffAllow[resource][action] {
			return allow("staff: acción permitida en su sucursal")
		}
		return deny("acción fuera del allow-list de staff")
	}

	return deny("rol desconocido")
}
