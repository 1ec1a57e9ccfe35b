package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TerminacionRequest struct {
	Nombre   string          `json:"nombre"   validate:"required,min=2,max=100"`
	Precio   decimal.Decimal `json:"precio"   validate:"min=0"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
}

// ItemPedidoRequest creates one line inside a pedido. ReferenciaID applies to
// pedidos of tipo "tarjetas", TipoVolanteID to "volantes" — exactly one must
// be set, matching the pedido's tipo.
type ItemPedidoRequest struct {
	ReferenciaID  *string `json:"referencia_id"   validate:"omitempty,uuid"`
	TipoVolanteID *string `json:"tipo_volante_id" validate:"omitempty,uuid"`
	// Ocupacion: 0 = use the catalog entry's default occupation
	Ocupacion     int                  `json:"ocupacion"       validate:"min=0"`
	Millares      int                  `json:"millares"        validate:"required,min=1"`
	Terminaciones []TerminacionRequest `json:"terminaciones"   validate:"omitempty,dive"`
	Notas         *string              `json:"notas"`
}

type CrearPedidoRequest struct {
	ClienteID string              `json:"cliente_id" validate:"required,uuid"`
	Tipo      string              `json:"tipo"       validate:"required,oneof=tarjetas volantes"`
	Items     []ItemPedidoRequest `json:"items"      validate:"required,min=1,dive"`
	Descuento decimal.Decimal     `json:"descuento"  validate:"min=0"`
	Notas     *string             `json:"notas"`
	ImagenURL *string             `json:"imagen_url"`
}

type ActualizarPedidoRequest struct {
	Descuento *decimal.Decimal `json:"descuento" validate:"omitempty"`
	Notas     *string          `json:"notas"`
	ImagenURL *string          `json:"imagen_url"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=recibido en_cupo en_produccion terminado entregado cancelado"`
}

type AgregarItemRequest struct {
	Item ItemPedidoRequest `json:"item" validate:"required"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Estado    string `form:"estado"`     // empty = all
	Tipo      string `form:"tipo"`       // tarjetas | volantes | empty
	ClienteID string `form:"cliente_id"` // UUID
	Desde     string `form:"desde"`      // YYYY-MM-DD, fecha_recepcion >=
	Hasta     string `form:"hasta"`      // YYYY-MM-DD, fecha_recepcion <=
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TerminacionResponse struct {
	Nombre   string          `json:"nombre"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad"`
}

type ItemPedidoResponse struct {
	ID            string                `json:"id"`
	Referencia    string                `json:"referencia,omitempty"`
	TipoVolante   string                `json:"tipo_volante,omitempty"`
	Grupo         string                `json:"grupo"`
	Ocupacion     int                   `json:"ocupacion"`
	Millares      int                   `json:"millares"`
	Terminaciones []TerminacionResponse `json:"terminaciones,omitempty"`
	PrecioTotal   decimal.Decimal       `json:"precio_total"`
	Notas         *string               `json:"notas,omitempty"`
}

type PedidoResponse struct {
	ID             string               `json:"id"`
	Consecutivo    int                  `json:"consecutivo"`
	ClienteID      string               `json:"cliente_id"`
	Empresa        string               `json:"empresa,omitempty"`
	Tipo           string               `json:"tipo"`
	Estado         string               `json:"estado"`
	FechaRecepcion string               `json:"fecha_recepcion"`
	Items          []ItemPedidoResponse `json:"items"`
	Descuento      decimal.Decimal      `json:"descuento"`
	Total          decimal.Decimal      `json:"total"`
	Abonado        decimal.Decimal      `json:"abonado"`
	Saldo          decimal.Decimal      `json:"saldo"`
	Notas          *string              `json:"notas,omitempty"`
	ImagenURL      *string              `json:"imagen_url,omitempty"`
	CreatedAt      string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
