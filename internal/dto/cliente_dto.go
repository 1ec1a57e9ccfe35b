package dto

type CrearClienteRequest struct {
	Empresa  string  `json:"empresa"  validate:"required,min=2,max=150"`
	Contacto string  `json:"contacto" validate:"omitempty,max=100"`
	Telefono string  `json:"telefono" validate:"required,min=7,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Notas    *string `json:"notas"`
}

type ActualizarClienteRequest struct {
	Empresa  string  `json:"empresa"  validate:"omitempty,min=2,max=150"`
	Contacto *string `json:"contacto" validate:"omitempty,max=100"`
	Telefono string  `json:"telefono" validate:"omitempty,min=7,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Notas    *string `json:"notas"`
}

// ClienteFilter is bound from the query string of GET /v1/clientes.
type ClienteFilter struct {
	Empresa string `form:"empresa"`
	Activo  string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Empresa  string  `json:"empresa"`
	Contacto string  `json:"contacto"`
	Telefono string  `json:"telefono"`
	Email    *string `json:"email"`
	Notas    *string `json:"notas"`
	Activo   bool    `json:"activo"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
