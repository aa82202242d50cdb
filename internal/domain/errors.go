package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAccountLocked      = errors.New("cuenta bloqueada por intentos fallidos")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrCategoryHasItems   = errors.New("la categoría tiene productos asociados")
	ErrSaleNotCancellable = errors.New("solo las ventas completadas pueden cancelarse")
	ErrAuditLogImmutable  = errors.New("los registros de auditoría son inmutables")
	ErrAlertResolved      = errors.New("la alerta ya fue resuelta")
)
