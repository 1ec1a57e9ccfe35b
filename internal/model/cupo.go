package model

import (
	"time"

	"github.com/google/uuid"
)

// Cupo is a bounded-capacity daily production slot. Capacity is expressed in
// occupation units; the sum of assigned occupation never exceeds Capacidad.
type Cupo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"not null"`
	Fecha  time.Time `gorm:"type:date;index;not null"`
	// Capacidad never shrinks below the occupation already assigned.
	Capacidad int  `gorm:"not null"`
	Cerrado   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Asignaciones []CupoAsignacion `gorm:"foreignKey:CupoID;constraint:OnDelete:CASCADE"`
}

// OcupacionUsada sums the occupation consumed by current placements.
func (c *Cupo) OcupacionUsada() int {
	usada := 0
	for _, a := range c.Asignaciones {
		usada += a.Ocupacion
	}
	return usada
}

// CapacidadRestante is the occupation still available in the slot.
func (c *Cupo) CapacidadRestante() int {
	return c.Capacidad - c.OcupacionUsada()
}

// CupoAsignacion places one PedidoItem inside a Cupo, consuming Ocupacion
// units. Grupo is copied from the item so compatibility re-checks on the
// batch contents never need item lookups.
type CupoAsignacion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CupoID       uuid.UUID `gorm:"type:uuid;index;not null"`
	PedidoItemID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Grupo        string    `gorm:"type:varchar(30);not null"`
	Ocupacion    int       `gorm:"not null"`
	CreatedAt    time.Time

	PedidoItem *PedidoItem `gorm:"foreignKey:PedidoItemID"`
}
