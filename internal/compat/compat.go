// Package compat decides whether a set of order items may share one
// production cupo. The check is pure: it looks only at each item's batch
// group and occupation, never at the database.
package compat

import (
	"fmt"
	"strings"
)

// Card groups. Cards in the "brillo" group print on glossy stock; cards in
// "mate_reserva" print matte with UV reserve. They can share a cupo only
// under the mixed-run restriction below.
const (
	GrupoBrillo      = "brillo"
	GrupoMateReserva = "mate_reserva"
)

// Flyer groups carry the "volante_" prefix (volante_medio, volante_cuarto, …).
const prefijoVolante = "volante_"

// Categorias returned by CategoriaDe.
const (
	CategoriaTarjeta = "tarjeta"
	CategoriaVolante = "volante"
)

// Mixed brillo + mate_reserva runs only work when the plate layout divides
// evenly in three and the run stays within one press load.
const (
	mixtoMultiplo = 3
	mixtoMaximo   = 30
)

// Item is the minimal view of a PedidoItem the validator needs.
type Item struct {
	Grupo     string
	Ocupacion int
}

// CategoriaDe maps a batch group to its top-level category.
func CategoriaDe(grupo string) string {
	if strings.HasPrefix(grupo, prefijoVolante) {
		return CategoriaVolante
	}
	return CategoriaTarjeta
}

// IncompatibilidadError carries every violated rule. Callers show all of
// Motivos at once; nothing is reported incrementally.
type IncompatibilidadError struct {
	Motivos []string
}

func (e *IncompatibilidadError) Error() string {
	return "items incompatibles: " + strings.Join(e.Motivos, "; ")
}

// Validar checks whether the candidate set may coexist in one cupo.
// Rules, in order:
//  1. Card groups and flyer groups never share a cupo.
//  2. A set mixing "brillo" and "mate_reserva" must have a total occupation
//     that is a multiple of 3 and does not exceed 30.
//  3. Homogeneous sets are always valid; capacity is the caller's problem.
//
// Returns nil when valid, or an *IncompatibilidadError listing every
// violated rule.
func Validar(items []Item) error {
	if len(items) == 0 {
		return nil
	}

	var motivos []string

	categorias := make(map[string]bool)
	grupos := make(map[string]bool)
	ocupacionTotal := 0
	for _, it := range items {
		categorias[CategoriaDe(it.Grupo)] = true
		grupos[it.Grupo] = true
		ocupacionTotal += it.Ocupacion
	}

	if len(categorias) > 1 {
		motivos = append(motivos, "tarjetas y volantes no pueden compartir un cupo")
	}

	if grupos[GrupoBrillo] && grupos[GrupoMateReserva] {
		if ocupacionTotal%mixtoMultiplo != 0 {
			motivos = append(motivos, fmt.Sprintf(
				"mezcla brillo/mate-reserva: la ocupacion total %d debe ser multiplo de %d",
				ocupacionTotal, mixtoMultiplo))
		}
		if ocupacionTotal > mixtoMaximo {
			motivos = append(motivos, fmt.Sprintf(
				"mezcla brillo/mate-reserva: la ocupacion total %d supera el maximo de %d",
				ocupacionTotal, mixtoMaximo))
		}
	}

	if len(motivos) > 0 {
		return &IncompatibilidadError{Motivos: motivos}
	}
	return nil
}
