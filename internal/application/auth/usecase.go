package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/repository"
)

// AuthUseCase caso de uso de autenticación: login con emisión de token
// enriquecido. Las credenciales las valida este caso de uso; los claims los
// aporta el TokenIssuerHook.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hook     *TokenIssuerHook
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, hook *TokenIssuerHook) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, hook: hook}
}

// Login verifica email/password, pasa por el hook de emisión y retorna el
// token enriquecido + usuario. Un fallo del hook (jerarquía incompleta,
// timeout) niega el login: el caller recibe la razón, nunca un token a medias.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, _, err := uc.hook.OnIssue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// ToUserResponse mapea la entidad a su DTO de salida (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		BranchID:  u.BranchID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
