package model

import "fmt"

// EstadoPedido is the lifecycle state of a production order.
//
// Valid status graph:
//
//	recibido ──► en_cupo ──► en_produccion ──► terminado ──► entregado
//	    │            │             │               │
//	    └────────────┴─────────────┴───────────────┴──► cancelado
//
// "entregado" and "cancelado" are terminal states.
type EstadoPedido string

const (
	EstadoRecibido     EstadoPedido = "recibido"
	EstadoEnCupo       EstadoPedido = "en_cupo"
	EstadoEnProduccion EstadoPedido = "en_produccion"
	EstadoTerminado    EstadoPedido = "terminado"
	EstadoEntregado    EstadoPedido = "entregado"
	EstadoCancelado    EstadoPedido = "cancelado"
)

// transicionesValidas lists every allowed (de → a) pair. The graph only moves
// forward; "cancelado" is reachable from any non-terminal state and absorbing.
var transicionesValidas = map[EstadoPedido][]EstadoPedido{
	EstadoRecibido:     {EstadoEnCupo, EstadoCancelado},
	EstadoEnCupo:       {EstadoEnProduccion, EstadoCancelado},
	EstadoEnProduccion: {EstadoTerminado, EstadoCancelado},
	EstadoTerminado:    {EstadoEntregado, EstadoCancelado},
	// entregado and cancelado are terminal — no outgoing transitions
}

// ParseEstado converts a raw string to an EstadoPedido, rejecting unknown values.
func ParseEstado(s string) (EstadoPedido, error) {
	e := EstadoPedido(s)
	switch e {
	case EstadoRecibido, EstadoEnCupo, EstadoEnProduccion, EstadoTerminado, EstadoEntregado, EstadoCancelado:
		return e, nil
	}
	return "", fmt.Errorf("estado de pedido desconocido %q", s)
}

// EsTerminal reports whether the state has no outgoing transitions.
func (e EstadoPedido) EsTerminal() bool {
	return len(transicionesValidas[e]) == 0
}

// PuedeTransicionar reports whether moving de → a is permitted by the graph.
func PuedeTransicionar(de, a EstadoPedido) bool {
	for _, s := range transicionesValidas[de] {
		if s == a {
			return true
		}
	}
	return false
}

// TransicionInvalidaError reports an illegal status change request.
// The order's stored state is guaranteed untouched when this is returned.
type TransicionInvalidaError struct {
	De EstadoPedido
	A  EstadoPedido
}

func (e *TransicionInvalidaError) Error() string {
	return fmt.Sprintf("transicion invalida de %q a %q", e.De, e.A)
}

// ValidarTransicion returns nil when de → a is allowed, or a
// *TransicionInvalidaError describing the rejected pair.
func ValidarTransicion(de, a EstadoPedido) error {
	if !PuedeTransicionar(de, a) {
		return &TransicionInvalidaError{De: de, A: a}
	}
	return nil
}
