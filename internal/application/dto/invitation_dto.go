package dto

import "time"

// CreateInvitationRequest entrada para emitir una invitación.
type CreateInvitationRequest struct {
	RoleType  string `json:"role_type" validate:"required,oneof=branch_manager shift_leader staff"`
	BranchID  string `json:"branch_id" validate:"omitempty,uuid"`
	ExpiresIn int    `json:"expires_in_hours" validate:"omitempty,min=1,max=720"`
}

// InvitationResponse salida de una invitación emitida.
type InvitationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	RoleType  string    `json:"role_type"`
	CompanyID string    `json:"company_id"`
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedBy string    `json:"created_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedeemRequest entrada para canjear una invitación (endpoint público).
type RedeemRequest struct {
	Code     string `json:"code" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// RedeemResponse resultado de un canje exitoso: Consumed(role, company_id).
type RedeemResponse struct {
	Role      string       `json:"role"`
	CompanyID string       `json:"company_id"`
	BranchID  string       `json:"branch_id,omitempty"`
	User      UserResponse `json:"user"`
}
