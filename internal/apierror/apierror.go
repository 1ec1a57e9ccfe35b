// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

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

// Incompatibilidad carries every violated batch-compatibility rule so the
// frontend can show all problems at once instead of one per round trip.
type IncompatibilidadError struct {
	Detail  string   `json:"detail"`
	Motivos []string `json:"motivos"`
}

func NewIncompatibilidad(motivos []string) *IncompatibilidadError {
	return &IncompatibilidadError{Detail: "Items incompatibles para el cupo", Motivos: motivos}
}
