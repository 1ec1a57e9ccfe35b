package service

import "fmt"

// NotFoundError reports a missing referenced entity by its kind.
type NotFoundError struct {
	Entidad string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado", e.Entidad)
}

// CapacidadExcedidaError reports an allocation that would overflow a cupo.
type CapacidadExcedidaError struct {
	Restante   int
	Solicitada int
}

func (e *CapacidadExcedidaError) Error() string {
	return fmt.Sprintf("capacidad excedida: el cupo tiene %d unidades libres y el item ocupa %d",
		e.Restante, e.Solicitada)
}

// ValidationError reports malformed input detected past DTO binding, e.g. an
// item whose catalog reference does not match the order type.
type ValidationError struct {
	Detalle string
}

func (e *ValidationError) Error() string { return e.Detalle }
