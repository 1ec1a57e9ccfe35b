package dto

import "github.com/shopspring/decimal"

type RegistrarPagoRequest struct {
	Monto     decimal.Decimal `json:"monto"  validate:"required"`
	Metodo    string          `json:"metodo" validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	Nota      *string         `json:"nota"`
	ImagenURL *string         `json:"imagen_url"`
}

type PagoResponse struct {
	ID        string          `json:"id"`
	PedidoID  string          `json:"pedido_id"`
	Monto     decimal.Decimal `json:"monto"`
	Metodo    string          `json:"metodo"`
	Nota      *string         `json:"nota,omitempty"`
	ImagenURL *string         `json:"imagen_url,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// BalanceResponse is the derived payment position of one pedido.
type BalanceResponse struct {
	PedidoID string          `json:"pedido_id"`
	Total    decimal.Decimal `json:"total"`
	Abonado  decimal.Decimal `json:"abonado"`
	Saldo    decimal.Decimal `json:"saldo"`
	Pagos    []PagoResponse  `json:"pagos"`
}
