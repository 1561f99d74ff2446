package entity

import "time"

// Invitation representa una invitación de un solo uso para incorporar un
// usuario con un rol predefinido a una empresa (y opcionalmente a una sucursal).
type Invitation struct {
	ID        string
	Code      string // invitation_code, único
	RoleType  string // rol que recibirá quien la canjee (mismo enum que User)
	CompanyID string
	BranchID  string // "" cuando el rol invitado es CEO
	CreatedBy string
	ExpiresAt time.Time
	UsedAt    *time.Time // nil = sin consumir
	UsedBy    string
	CreatedAt time.Time
}

// Expired indica si la invitación está vencida en el instante dado.
// Una invitación vencida es permanentemente inutilizable, tenga o no UsedAt.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// Used indica si la invitación ya fue consumida.
func (i *Invitation) Used() bool {
	return i.UsedAt != nil
}
