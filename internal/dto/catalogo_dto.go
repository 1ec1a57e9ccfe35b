package dto

import "github.com/shopspring/decimal"

type CrearReferenciaRequest struct {
	Nombre           string          `json:"nombre"            validate:"required,min=2,max=100"`
	Grupo            string          `json:"grupo"             validate:"required,oneof=brillo mate_reserva"`
	PrecioBase       decimal.Decimal `json:"precio_base"       validate:"required"`
	OcupacionDefecto int             `json:"ocupacion_defecto" validate:"required,min=1"`
}

type CrearTipoVolanteRequest struct {
	Nombre           string          `json:"nombre"            validate:"required,min=2,max=100"`
	Grupo            string          `json:"grupo"             validate:"required,startswith=volante_"`
	PrecioBase       decimal.Decimal `json:"precio_base"       validate:"required"`
	OcupacionDefecto int             `json:"ocupacion_defecto" validate:"required,min=1"`
}

type ActualizarCatalogoRequest struct {
	Nombre           string           `json:"nombre"            validate:"omitempty,min=2,max=100"`
	PrecioBase       *decimal.Decimal `json:"precio_base"`
	OcupacionDefecto int              `json:"ocupacion_defecto" validate:"omitempty,min=1"`
}

type CatalogoResponse struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Grupo            string          `json:"grupo"`
	PrecioBase       decimal.Decimal `json:"precio_base"`
	OcupacionDefecto int             `json:"ocupacion_defecto"`
	Activo           bool            `json:"activo"`
}
