package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todosLosEstados = []EstadoPedido{
	EstadoRecibido, EstadoEnCupo, EstadoEnProduccion,
	EstadoTerminado, EstadoEntregado, EstadoCancelado,
}

func TestPuedeTransicionar_MatrizCompleta(t *testing.T) {
	permitidas := map[EstadoPedido][]EstadoPedido{
		EstadoRecibido:     {EstadoEnCupo, EstadoCancelado},
		EstadoEnCupo:       {EstadoEnProduccion, EstadoCancelado},
		EstadoEnProduccion: {EstadoTerminado, EstadoCancelado},
		EstadoTerminado:    {EstadoEntregado, EstadoCancelado},
		EstadoEntregado:    {},
		EstadoCancelado:    {},
	}

	for _, de := range todosLosEstados {
		for _, a := range todosLosEstados {
			esperado := false
			for _, p := range permitidas[de] {
				if p == a {
					esperado = true
				}
			}
			assert.Equal(t, esperado, PuedeTransicionar(de, a), "%s → %s", de, a)
		}
	}
}

func TestValidarTransicion_Invalida(t *testing.T) {
	err := ValidarTransicion(EstadoEntregado, EstadoEnCupo)
	require.Error(t, err)

	var invalida *TransicionInvalidaError
	require.True(t, errors.As(err, &invalida))
	assert.Equal(t, EstadoEntregado, invalida.De)
	assert.Equal(t, EstadoEnCupo, invalida.A)
}

func TestValidarTransicion_Valida(t *testing.T) {
	assert.NoError(t, ValidarTransicion(EstadoRecibido, EstadoEnCupo))
	assert.NoError(t, ValidarTransicion(EstadoTerminado, EstadoCancelado))
}

func TestParseEstado(t *testing.T) {
	for _, e := range todosLosEstados {
		parsed, err := ParseEstado(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
	_, err := ParseEstado("despachado")
	assert.Error(t, err)
}

func TestEsTerminal(t *testing.T) {
	assert.True(t, EstadoEntregado.EsTerminal())
	assert.True(t, EstadoCancelado.EsTerminal())
	assert.False(t, EstadoRecibido.EsTerminal())
	assert.False(t, EstadoTerminado.EsTerminal())
}
