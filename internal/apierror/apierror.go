// Package apierror provides standardized error response structures for the API
// and the sentinel errors of the ledger core. All errors returned to clients go
// through this package to ensure consistency and to prevent leaking internal
// details (stack traces, DB errors, etc.).
package apierror

import "errors"

// Sentinel errors of the ledger core. Services return these (possibly
// wrapped); handlers map them to HTTP status codes. None of them is retried
// automatically — each one signals a genuine business condition, not a
// transient fault.
var (
	// ErrCajaYaAbierta: an open caja already exists for the sucursal.
	ErrCajaYaAbierta = errors.New("ya existe una caja abierta para esta sucursal")
	// ErrCajaYaCerrada: the caja was already closed; the cycle is terminal.
	ErrCajaYaCerrada = errors.New("la caja ya está cerrada")
	// ErrNoEncontrado: the referenced caja or movimiento does not exist.
	ErrNoEncontrado = errors.New("registro no encontrado")
	// ErrRegistroInmutable: attempted edit of a payment-linked ingreso.
	ErrRegistroInmutable = errors.New("el movimiento está vinculado a un pago y no puede editarse")
	// ErrAccesoSucursal: the actor may not operate on the sucursal.
	ErrAccesoSucursal = errors.New("la sucursal no está habilitada para este usuario")
	// ErrValidacion: malformed or out-of-range input; always recoverable by
	// the caller fixing the request. Wrap with context: fmt.Errorf("%w: …").
	ErrValidacion = errors.New("error de validacion")
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
