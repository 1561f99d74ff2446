package entity

import "time"

// Branch representa una sucursal (club) que pertenece a exactamente una Company.
type Branch struct {
	ID        string
	CompanyID string // non-null siempre
	Name      string
	Address   string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
