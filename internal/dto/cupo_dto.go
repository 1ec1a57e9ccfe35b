package dto

type CrearCupoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Fecha  string `json:"fecha"  validate:"required,datetime=2006-01-02"`
	// Capacidad: 0 = use CAPACIDAD_CUPO_DEFECTO from config
	Capacidad int `json:"capacidad" validate:"min=0"`
}

type ActualizarCupoRequest struct {
	Nombre    *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Capacidad *int    `json:"capacidad" validate:"omitempty,min=1"`
	Cerrado   *bool   `json:"cerrado"`
}

type AsignarItemRequest struct {
	PedidoItemID string `json:"pedido_item_id" validate:"required,uuid"`
}

type MoverItemRequest struct {
	PedidoItemID string `json:"pedido_item_id" validate:"required,uuid"`
	CupoDestino  string `json:"cupo_destino"   validate:"required,uuid"`
}

// AsignarAutomaticoRequest asks the engine to pick the best cupo for an item
// among the open cupos between Desde and Hasta (inclusive).
type AsignarAutomaticoRequest struct {
	PedidoItemID string `json:"pedido_item_id" validate:"required,uuid"`
	Desde        string `json:"desde" validate:"required,datetime=2006-01-02"`
	Hasta        string `json:"hasta" validate:"required,datetime=2006-01-02"`
}

// CupoFilter is bound from the query string of GET /v1/cupos.
type CupoFilter struct {
	Desde   string `form:"desde"`   // YYYY-MM-DD
	Hasta   string `form:"hasta"`   // YYYY-MM-DD
	Cerrado string `form:"cerrado"` // "true" | "false" | empty = all
}

type AsignacionResponse struct {
	PedidoItemID string `json:"pedido_item_id"`
	Grupo        string `json:"grupo"`
	Ocupacion    int    `json:"ocupacion"`
	Consecutivo  int    `json:"consecutivo,omitempty"`
}

type CupoResponse struct {
	ID                string               `json:"id"`
	Nombre            string               `json:"nombre"`
	Fecha             string               `json:"fecha"`
	Capacidad         int                  `json:"capacidad"`
	OcupacionUsada    int                  `json:"ocupacion_usada"`
	CapacidadRestante int                  `json:"capacidad_restante"`
	Cerrado           bool                 `json:"cerrado"`
	Asignaciones      []AsignacionResponse `json:"asignaciones"`
}
