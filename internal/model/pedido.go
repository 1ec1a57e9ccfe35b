package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipo values for Pedido. A job is either cards or flyers, never both.
const (
	TipoTarjetas = "tarjetas"
	TipoVolantes = "volantes"
)

// Pedido is one production order.
// Invariant: every PedidoItem belongs to the same Tipo as the Pedido.
type Pedido struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Consecutivo is the human-readable sequential order code, taken from a
	// DB sequence inside the creation transaction.
	Consecutivo    int          `gorm:"uniqueIndex;not null"`
	ClienteID      uuid.UUID    `gorm:"type:uuid;index;not null"`
	Tipo           string       `gorm:"type:varchar(20);not null"`
	Estado         EstadoPedido `gorm:"type:varchar(20);not null;default:'recibido'"`
	FechaRecepcion time.Time    `gorm:"not null"`
	Notas          *string
	// ImagenURL points at the reference artwork stored by the image store.
	ImagenURL *string
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
	Items   []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	Pagos   []Pago       `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

// Total sums item prices minus the order-level discount.
func (p *Pedido) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.PrecioTotal)
	}
	return total.Sub(p.Descuento)
}

// PedidoItem is one priced line inside a Pedido. Exactly one of ReferenciaID
// (card catalog) or TipoVolanteID (flyer catalog) is set, matching the order's
// Tipo. Millares is the quantity in thousands of pieces.
type PedidoItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	ReferenciaID  *uuid.UUID `gorm:"type:uuid;index"`
	TipoVolanteID *uuid.UUID `gorm:"type:uuid;index"`
	// Grupo is denormalized from the catalog entry at creation time so the
	// compatibility validator never needs a catalog lookup.
	Grupo     string `gorm:"type:varchar(30);not null"`
	Ocupacion int    `gorm:"not null"`
	Millares  int    `gorm:"not null"`
	Notas     *string
	// PrecioTotal is computed by the pricing calculator when the item is
	// created or updated; it is stored, never recomputed on read.
	PrecioTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Pedido        *Pedido            `gorm:"foreignKey:PedidoID"`
	Referencia    *ReferenciaTarjeta `gorm:"foreignKey:ReferenciaID"`
	TipoVolante   *TipoVolante       `gorm:"foreignKey:TipoVolanteID"`
	Terminaciones []Terminacion      `gorm:"foreignKey:PedidoItemID;constraint:OnDelete:CASCADE"`
}

// Terminacion is a special finish applied to a card item, priced per unit.
type Terminacion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoItemID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre       string          `gorm:"not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad     int             `gorm:"not null"`
	CreatedAt    time.Time
}
