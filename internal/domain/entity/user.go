package entity

import "time"

// Roles válidos para User, en orden de jerarquía descendente.
const (
	RoleCEO           = "ceo"
	RoleBranchManager = "branch_manager"
	RoleShiftLeader   = "shift_leader"
	RoleStaff         = "staff"
)

// ValidRole indica si el rol pertenece al enum soportado.
func ValidRole(role string) bool {
	switch role {
	case RoleCEO, RoleBranchManager, RoleShiftLeader, RoleStaff:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company y,
// salvo el CEO, a una Branch).
type User struct {
	ID           string
	CompanyID    string // "" solo antes de completar el provisionamiento
	BranchID     string // "" permitido únicamente para rol CEO (alcance de empresa)
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
