package dto

// ─── Plantillas ──────────────────────────────────────────────────────────────

type CrearPlantillaRequest struct {
	Estado     string `json:"estado"      validate:"required,oneof=recibido en_cupo en_produccion terminado entregado cancelado"`
	TipoPedido string `json:"tipo_pedido" validate:"required,oneof=tarjetas volantes"`
	Cuerpo     string `json:"cuerpo"      validate:"required,min=5"`
}

type ActualizarPlantillaRequest struct {
	Cuerpo string `json:"cuerpo" validate:"required,min=5"`
}

type PlantillaResponse struct {
	ID         string `json:"id"`
	Estado     string `json:"estado"`
	TipoPedido string `json:"tipo_pedido"`
	Cuerpo     string `json:"cuerpo"`
	Activo     bool   `json:"activo"`
}

// ─── Mensajes ────────────────────────────────────────────────────────────────

type MensajeResponse struct {
	ID          string `json:"id"`
	PedidoID    string `json:"pedido_id"`
	Estado      string `json:"estado"`
	Contenido   string `json:"contenido"`
	Copiado     bool   `json:"copiado"`
	Reemplazado bool   `json:"reemplazado"`
	// Link opens WhatsApp with Contenido pre-filled for the client's phone.
	Link      string  `json:"link"`
	EnviadoAt *string `json:"enviado_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}
