package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores de resolución de claims: el usuario existe en el identity store pero
// su jerarquía está incompleta. Siempre se falla cerrado: sin company o sin
// branch no se emiten claims parciales.
var (
	ErrCompanyUnlinked   = errors.New("usuario sin empresa vinculada")
	ErrBranchUnassigned  = errors.New("usuario sin sucursal asignada")
	ErrEnrichmentTimeout = errors.New("enriquecimiento de token excedió el tiempo límite")
)

// Errores del flujo de invitaciones. ErrAlreadyUsed bajo concurrencia es un
// resultado de negocio esperado, no una anomalía.
var (
	ErrInvitationNotFound = errors.New("invitación no encontrada")
	ErrAlreadyUsed        = errors.New("la invitación ya fue utilizada")
	ErrExpired            = errors.New("la invitación está vencida")
)

// ErrRoleConflict: intento de asignar rol CEO cuando la empresa ya tiene uno.
var ErrRoleConflict = errors.New("la empresa ya tiene un CEO")
