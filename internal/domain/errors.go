package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para agregar detalle;
// los handlers HTTP los comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("validación fallida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrDatabaseNotReady  = errors.New("base de datos no disponible")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Kind devuelve el código estable del error de dominio (se expone en las respuestas HTTP).
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrDatabaseNotReady):
		return "DATABASE_NOT_READY"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}
