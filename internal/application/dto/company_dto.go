package dto

import "time"

// CreateCompanyRequest bootstrap de una empresa: se crea la empresa y su
// creador queda como CEO en la misma transacción.
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	CEOName  string `json:"ceo_name" validate:"omitempty,max=200"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BootstrapResponse salida del bootstrap: empresa + CEO.
type BootstrapResponse struct {
	Company CompanyResponse `json:"company"`
	CEO     UserResponse    `json:"ceo"`
}
