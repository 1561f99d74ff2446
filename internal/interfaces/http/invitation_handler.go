package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/dto"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/application/invitation"
	"github.com/longsangsabo2025/SABOHUB-sub001/internal/domain"
)

// InvitationHandler maneja la emisión y el canje de invitaciones.
type InvitationHandler struct {
	uc *invitation.UseCase
}

// NewInvitationHandler construye el handler de invitaciones.
func NewInvitationHandler(uc *invitation.UseCase) *InvitationHandler {
	return &InvitationHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir una invitación
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvitationRequest  true  "role_type, branch_id, expires_in_hours"
// @Success      201   {object}  dto.InvitationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invitations [post]
func (h *InvitationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetClaims(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol o sucursal inválidos"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol invitado excede el alcance del emisor"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BRANCH_NOT_FOUND", Message: "la sucursal no existe en esta empresa"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Redeem godoc
// @Summary      Canjear una invitación (público)
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RedeemRequest  true  "code, email, password"
// @Success      201   {object}  dto.RedeemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/invitations/redeem [post]
func (h *InvitationHandler) Redeem(c *fiber.Ctx) error {
	var in dto.RedeemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Code == "" || in.Email == "" || len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, email y password (mínimo 8) son requeridos"})
	}
	out, err := h.uc.Redeem(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "INVITATION_NOT_FOUND", Message: "el código no existe"})
		case errors.Is(err, domain.ErrExpired):
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "EXPIRED", Message: "la invitación venció"})
		case errors.Is(err, domain.ErrAlreadyUsed):
			// resultado normal de negocio en canjes concurrentes: otro ganó
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_USED", Message: "la invitación ya fue usada"})
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
