package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

func buildMensajeSvc() (MensajeService, *stubMensajeRepo, *stubPlantillaRepo, *stubPedidoRepo) {
	mensajeRepo := &stubMensajeRepo{}
	plantillaRepo := &stubPlantillaRepo{}
	pedidoRepo := newStubPedidoRepo()
	svc := NewMensajeService(mensajeRepo, plantillaRepo, pedidoRepo, metrics.Registry("test"))
	return svc, mensajeRepo, plantillaRepo, pedidoRepo
}

// pedidoConCliente builds a pedido with one priced item, a partial payment and
// the client attached, stored in the stub repo.
func pedidoConCliente(t *testing.T, repo *stubPedidoRepo) *model.Pedido {
	t.Helper()
	p := &model.Pedido{
		Consecutivo:    7,
		Tipo:           model.TipoTarjetas,
		Estado:         model.EstadoRecibido,
		FechaRecepcion: time.Now(),
		Items:          []model.PedidoItem{{Grupo: "brillo", Ocupacion: 1, Millares: 1, PrecioTotal: decimal.NewFromInt(50)}},
		Pagos:          []model.Pago{{Monto: decimal.NewFromInt(20)}},
		Cliente:        &model.Cliente{Empresa: "Acme Impresos", Contacto: "Laura", Telefono: "+57 300 123-4567"},
	}
	require.NoError(t, repo.Create(context.Background(), nil, p))
	return p
}

func TestProcesarTransicion_SinPlantillaEsNoOp(t *testing.T) {
	svc, mensajeRepo, _, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)

	mensaje, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnCupo)
	require.NoError(t, err)
	assert.Nil(t, mensaje)
	assert.Empty(t, mensajeRepo.mensajes)
}

func TestProcesarTransicion_RenderizaDatosDelPedido(t *testing.T) {
	svc, _, plantillaRepo, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)
	plantillaRepo.plantillas = []*model.PlantillaMensaje{{
		ID: uuid.New(), Estado: model.EstadoTerminado, TipoPedido: model.TipoTarjetas, Activo: true,
		Cuerpo: "{{.Empresa}}: tu pedido #{{.Consecutivo}} esta {{.Estado}}. Saldo pendiente: ${{.Saldo}}.",
	}}

	mensaje, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoTerminado)
	require.NoError(t, err)
	require.NotNil(t, mensaje)
	assert.Equal(t, "Acme Impresos: tu pedido #7 esta terminado. Saldo pendiente: $30.", mensaje.Contenido)
}

func TestProcesarTransicion_PlantillaRota(t *testing.T) {
	svc, mensajeRepo, plantillaRepo, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)
	plantillaRepo.plantillas = []*model.PlantillaMensaje{{
		ID: uuid.New(), Estado: model.EstadoEnCupo, TipoPedido: model.TipoTarjetas, Activo: true,
		Cuerpo: "{{.CampoInexistente}}",
	}}

	_, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnCupo)
	assert.Error(t, err)
	assert.Empty(t, mensajeRepo.mensajes)
}

func TestProcesarTransicion_ReemplazaPendiente(t *testing.T) {
	svc, _, plantillaRepo, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)
	plantillaRepo.plantillas = []*model.PlantillaMensaje{
		{ID: uuid.New(), Estado: model.EstadoEnCupo, TipoPedido: model.TipoTarjetas, Activo: true, Cuerpo: "programado"},
		{ID: uuid.New(), Estado: model.EstadoEnProduccion, TipoPedido: model.TipoTarjetas, Activo: true, Cuerpo: "en maquina"},
	}

	primero, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnCupo)
	require.NoError(t, err)
	segundo, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnProduccion)
	require.NoError(t, err)

	assert.True(t, primero.Reemplazado)
	assert.True(t, segundo.Pendiente())

	// The pending lookup resolves to the newest message only.
	pendiente, err := svc.Pendiente(context.Background(), pedido.ID)
	require.NoError(t, err)
	require.NotNil(t, pendiente)
	assert.Equal(t, segundo.ID.String(), pendiente.ID)
	assert.Equal(t, "en maquina", pendiente.Contenido)

	historial, err := svc.Historial(context.Background(), pedido.ID)
	require.NoError(t, err)
	assert.Len(t, historial, 2)
}

func TestPendiente_LinkWhatsapp(t *testing.T) {
	svc, _, plantillaRepo, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)
	plantillaRepo.plantillas = []*model.PlantillaMensaje{{
		ID: uuid.New(), Estado: model.EstadoEnCupo, TipoPedido: model.TipoTarjetas, Activo: true, Cuerpo: "hola mundo",
	}}

	_, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnCupo)
	require.NoError(t, err)

	pendiente, err := svc.Pendiente(context.Background(), pedido.ID)
	require.NoError(t, err)
	require.NotNil(t, pendiente)
	assert.Equal(t, "https://wa.me/573001234567?text=hola+mundo", pendiente.Link)
}

func TestPendiente_SinMensajes(t *testing.T) {
	svc, _, _, _ := buildMensajeSvc()
	pendiente, err := svc.Pendiente(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, pendiente)
}

func TestMarcarCopiado_Idempotente(t *testing.T) {
	svc, mensajeRepo, plantillaRepo, pedidoRepo := buildMensajeSvc()
	pedido := pedidoConCliente(t, pedidoRepo)
	plantillaRepo.plantillas = []*model.PlantillaMensaje{{
		ID: uuid.New(), Estado: model.EstadoEnCupo, TipoPedido: model.TipoTarjetas, Activo: true, Cuerpo: "programado",
	}}

	mensaje, err := svc.ProcesarTransicionTx(context.Background(), nil, pedido, model.EstadoEnCupo)
	require.NoError(t, err)

	require.NoError(t, svc.MarcarCopiado(context.Background(), mensaje.ID))
	require.NotNil(t, mensajeRepo.mensajes[0].EnviadoAt)
	primerEnvio := *mensajeRepo.mensajes[0].EnviadoAt

	// A repeated acknowledgement neither fails nor moves the timestamp.
	require.NoError(t, svc.MarcarCopiado(context.Background(), mensaje.ID))
	assert.True(t, mensajeRepo.mensajes[0].Copiado)
	assert.Equal(t, primerEnvio, *mensajeRepo.mensajes[0].EnviadoAt)

	// An acknowledged message is no longer pending.
	pendiente, err := svc.Pendiente(context.Background(), pedido.ID)
	require.NoError(t, err)
	assert.Nil(t, pendiente)

	var notFound *NotFoundError
	err = svc.MarcarCopiado(context.Background(), uuid.New())
	assert.ErrorAs(t, err, &notFound)
}
