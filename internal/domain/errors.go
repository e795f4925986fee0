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

	// ErrNoPreviousRecord indica que el arrastre (carry-forward) no tiene
	// registro del día anterior del cual partir.
	ErrNoPreviousRecord = errors.New("no existe registro del día anterior")

	// ErrInclusionViolation es una violación de contrato: un tanque/silo
	// excluido llegó a persistencia con campos de lectura no nulos.
	ErrInclusionViolation = errors.New("unidad excluida con lecturas no nulas")

	// ErrFeedUnavailable indica que una cifra externa (despachos o fruta
	// procesada) no pudo obtenerse; la conciliación completa se aborta.
	ErrFeedUnavailable = errors.New("feed externo no disponible")
)
