package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferenciaTarjeta is a card catalog entry: a producible card spec with its
// base price per millar and the batch group it prints under.
type ReferenciaTarjeta struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	// Grupo: "brillo" | "mate_reserva" — drives cupo compatibility
	Grupo            string          `gorm:"type:varchar(30);not null"`
	PrecioBase       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OcupacionDefecto int             `gorm:"not null;default:1"`
	Activo           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TipoVolante is a flyer catalog entry (size/paper combination).
type TipoVolante struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	// Grupo: "volante_medio" | "volante_cuarto" | ... — flyer groups never
	// share a cupo with card groups
	Grupo            string          `gorm:"type:varchar(30);not null"`
	PrecioBase       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OcupacionDefecto int             `gorm:"not null;default:1"`
	Activo           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
