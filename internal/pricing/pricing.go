// Package pricing computes unit prices for production order items.
// Every function is pure and deterministic; money is decimal throughout.
package pricing

import "github.com/shopspring/decimal"

// Terminacion is a special finish line as seen by the calculator: a per-unit
// price and how many units of the finish the item carries.
type Terminacion struct {
	Precio   decimal.Decimal
	Cantidad int
}

// PrecioTarjeta prices a card item:
//
//	(base + Σ terminacion.precio × terminacion.cantidad) × ocupacion × millares
//
// Negative ocupacion or millares are clamped to zero, so malformed input
// yields a zero price instead of a negative charge.
func PrecioTarjeta(base decimal.Decimal, terminaciones []Terminacion, ocupacion, millares int) decimal.Decimal {
	unitario := base
	for _, t := range terminaciones {
		cantidad := t.Cantidad
		if cantidad < 0 {
			cantidad = 0
		}
		unitario = unitario.Add(t.Precio.Mul(decimal.NewFromInt(int64(cantidad))))
	}
	return unitario.Mul(factor(ocupacion)).Mul(factor(millares))
}

// PrecioVolante prices a flyer item: base × ocupacion × millares.
func PrecioVolante(base decimal.Decimal, ocupacion, millares int) decimal.Decimal {
	return base.Mul(factor(ocupacion)).Mul(factor(millares))
}

func factor(n int) decimal.Decimal {
	if n < 0 {
		n = 0
	}
	return decimal.NewFromInt(int64(n))
}
