package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/auth"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/invitation"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/usecase"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	BranchUC     *usecase.BranchUseCase
	UserUC       *usecase.UserUseCase
	InvitationUC *invitation.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Solo tres entradas son públicas: login,
// bootstrap de empresa y canje de invitación; el resto exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Bootstrap de empresa (público: la empresa y su CEO nacen juntos)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Bootstrap)

	// Canje de invitación (público: el que canjea aún no tiene cuenta)
	invitationHandler := NewInvitationHandler(deps.InvitationUC)
	api.Post("/invitations/redeem", invitationHandler.Redeem)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/companies/:id", companyHandler.GetByID)

	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", RequireRole(entity.RoleCEO), userHandler.AssignRole)
	users.Put("/:id/branch", RequireRole(entity.RoleCEO, entity.RoleBranchManager), userHandler.AssignBranch)

	// emitir invitaciones exige al menos alcance de sucursal
	invitations := protected.Group("/invitations", RequireRole(entity.RoleCEO, entity.RoleBranchManager))
	invitations.Post("/", invitationHandler.Create)
}
