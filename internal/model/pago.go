package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodo values for Pago.
const (
	MetodoEfectivo      = "efectivo"
	MetodoTransferencia = "transferencia"
	MetodoCheque        = "cheque"
	MetodoTarjeta       = "tarjeta"
)

// Pago is an immutable monetary record against a Pedido. The order's balance
// is always derived (total − Σ pagos), never stored.
type Pago struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo   string          `gorm:"type:varchar(20);not null"`
	Nota     *string
	// ImagenURL points at the payment voucher photo, when one was uploaded.
	ImagenURL *string
	CreatedAt time.Time
}
