package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	BranchID  string    `json:"branch_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignRoleRequest entrada para cambiar el rol de un usuario.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ceo branch_manager shift_leader staff"`
}

// AssignBranchRequest entrada para mover un usuario de sucursal.
type AssignBranchRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
}
