package model

import (
	"time"

	"github.com/google/uuid"
)

// PlantillaMensaje is a parametrized notification body keyed by the status
// that triggers it and the order type it applies to. At most one template
// exists per (estado, tipo_pedido) pair.
type PlantillaMensaje struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Estado     EstadoPedido `gorm:"type:varchar(20);not null;uniqueIndex:idx_plantilla_estado_tipo"`
	TipoPedido string       `gorm:"type:varchar(20);not null;uniqueIndex:idx_plantilla_estado_tipo"`
	// Cuerpo is a text/template body; see service.DatosPlantilla for the
	// fields available during rendering.
	Cuerpo    string `gorm:"not null"`
	Activo    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MensajeWhatsapp is one rendered notification instance.
// A message is "pendiente" while it is neither Copiado (acknowledged by the
// user) nor Reemplazado (superseded by a newer message for the same order).
// Invariant: at most one pending message per pedido.
type MensajeWhatsapp struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID    uuid.UUID    `gorm:"type:uuid;index;not null"`
	Estado      EstadoPedido `gorm:"type:varchar(20);not null"`
	PlantillaID uuid.UUID    `gorm:"type:uuid;not null"`
	Contenido   string       `gorm:"not null"`
	Copiado     bool         `gorm:"not null;default:false"`
	Reemplazado bool         `gorm:"not null;default:false"`
	// EnviadoAt is stamped when the user first acknowledges the message.
	EnviadoAt *time.Time
	CreatedAt time.Time

	Plantilla *PlantillaMensaje `gorm:"foreignKey:PlantillaID"`
}

// Pendiente reports whether this message is the order's current actionable
// notification.
func (m *MensajeWhatsapp) Pendiente() bool {
	return !m.Copiado && !m.Reemplazado
}
