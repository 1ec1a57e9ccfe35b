package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer company. Telefono is the WhatsApp-style messaging
// address used to build notification deep links; it is required. Email is
// optional — when present, notification copies are also mailed.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Empresa  string    `gorm:"index;not null"`
	Contacto string
	Telefono string `gorm:"not null"`
	Email    *string
	Notas    *string
	Activo   bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
