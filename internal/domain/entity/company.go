package entity

import "time"

// Company representa una cadena/tenant del sistema (multi-tenant).
// CreatedBy es nullable solo de forma transitoria durante el bootstrap:
// la empresa y su CEO se crean en la misma transacción.
type Company struct {
	ID        string
	Name      string
	CreatedBy string // usuario creador; "" solo durante bootstrap
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
