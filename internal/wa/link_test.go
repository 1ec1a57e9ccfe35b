package wa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLink(t *testing.T) {
	link := Link("+57 300 123-4567", "Su pedido #42 está listo")
	assert.Equal(t, "https://wa.me/573001234567?text=Su+pedido+%2342+est%C3%A1+listo", link)
}

func TestLink_SinTexto(t *testing.T) {
	assert.Equal(t, "https://wa.me/573001234567", Link("573001234567", ""))
}

func TestNormalizarTelefono(t *testing.T) {
	assert.Equal(t, "573001234567", NormalizarTelefono("(+57) 300-123 4567"))
	assert.Equal(t, "", NormalizarTelefono("sin numero"))
}
