package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktorhino/gestor-cupos-sub001/internal/compat"
	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

type pedidoFixture struct {
	svc           PedidoService
	pedidoRepo    *stubPedidoRepo
	clienteRepo   *stubClienteRepo
	catalogoRepo  *stubCatalogoRepo
	cupoRepo      *stubCupoRepo
	mensajeRepo   *stubMensajeRepo
	plantillaRepo *stubPlantillaRepo

	cliente    *model.Cliente
	referencia *model.ReferenciaTarjeta
	volante    *model.TipoVolante
}

func buildPedidoSvc(t *testing.T) *pedidoFixture {
	t.Helper()
	f := &pedidoFixture{
		pedidoRepo:    newStubPedidoRepo(),
		clienteRepo:   newStubClienteRepo(),
		catalogoRepo:  newStubCatalogoRepo(),
		cupoRepo:      newStubCupoRepo(),
		mensajeRepo:   &stubMensajeRepo{},
		plantillaRepo: &stubPlantillaRepo{},
	}

	email := "ventas@acme.com"
	f.cliente = &model.Cliente{Empresa: "Acme Impresos", Contacto: "Laura", Telefono: "+57 300 123-4567", Email: &email, Activo: true}
	require.NoError(t, f.clienteRepo.Create(context.Background(), f.cliente))

	f.referencia = &model.ReferenciaTarjeta{
		Nombre: "Brillante 300g", Grupo: compat.GrupoBrillo,
		PrecioBase: decimal.NewFromInt(10), OcupacionDefecto: 2, Activo: true,
	}
	require.NoError(t, f.catalogoRepo.CreateReferencia(context.Background(), f.referencia))

	f.volante = &model.TipoVolante{
		Nombre: "Medio pliego bond", Grupo: "volante_medio",
		PrecioBase: decimal.NewFromInt(7), OcupacionDefecto: 4, Activo: true,
	}
	require.NoError(t, f.catalogoRepo.CreateTipoVolante(context.Background(), f.volante))

	m := metrics.Registry("test")
	cfg := &config.Config{EstadosEliminacion: "recibido,cancelado", CapacidadCupoDefecto: 30}
	mensajeSvc := NewMensajeService(f.mensajeRepo, f.plantillaRepo, f.pedidoRepo, m)
	f.svc = NewPedidoService(f.pedidoRepo, f.clienteRepo, f.catalogoRepo, f.cupoRepo, mensajeSvc, nil, cfg, m)
	return f
}

func (f *pedidoFixture) crearTarjetas(t *testing.T, items ...dto.ItemPedidoRequest) *dto.PedidoResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteID: f.cliente.ID.String(),
		Tipo:      model.TipoTarjetas,
		Items:     items,
	})
	require.NoError(t, err)
	return resp
}

func refItem(f *pedidoFixture, ocupacion, millares int, terminaciones ...dto.TerminacionRequest) dto.ItemPedidoRequest {
	id := f.referencia.ID.String()
	return dto.ItemPedidoRequest{
		ReferenciaID:  &id,
		Ocupacion:     ocupacion,
		Millares:      millares,
		Terminaciones: terminaciones,
	}
}

func TestCrearPedido_PrecioYConsecutivo(t *testing.T) {
	f := buildPedidoSvc(t)

	// (10 base + 1×2 repujado) × 1 ocupacion × 2 millares = 24
	resp := f.crearTarjetas(t, refItem(f, 1, 2, dto.TerminacionRequest{
		Nombre: "repujado", Precio: decimal.NewFromInt(1), Cantidad: 2,
	}))

	assert.Equal(t, 1, resp.Consecutivo)
	assert.Equal(t, "recibido", resp.Estado)
	assert.Equal(t, "Acme Impresos", resp.Empresa)
	assert.Equal(t, "24", resp.Total.String())
	assert.Equal(t, "24", resp.Saldo.String())

	// A second pedido takes the next consecutivo.
	otro := f.crearTarjetas(t, refItem(f, 1, 1))
	assert.Equal(t, 2, otro.Consecutivo)
}

func TestCrearPedido_OcupacionPorDefecto(t *testing.T) {
	f := buildPedidoSvc(t)

	// Ocupacion 0 falls back to the catalog default (2 for this referencia).
	resp := f.crearTarjetas(t, refItem(f, 0, 1))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Ocupacion)
	assert.Equal(t, compat.GrupoBrillo, resp.Items[0].Grupo)
	assert.Equal(t, "20", resp.Items[0].PrecioTotal.String()) // 10 × 2 × 1
}

func TestCrearPedido_VolantesSinTerminaciones(t *testing.T) {
	f := buildPedidoSvc(t)
	tvID := f.volante.ID.String()

	_, err := f.svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteID: f.cliente.ID.String(),
		Tipo:      model.TipoVolantes,
		Items: []dto.ItemPedidoRequest{{
			TipoVolanteID: &tvID,
			Millares:      1,
			Terminaciones: []dto.TerminacionRequest{{Nombre: "brillo UV", Precio: decimal.NewFromInt(2), Cantidad: 1}},
		}},
	})
	assert.ErrorContains(t, err, "no llevan terminaciones")

	resp, err := f.svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteID: f.cliente.ID.String(),
		Tipo:      model.TipoVolantes,
		Items:     []dto.ItemPedidoRequest{{TipoVolanteID: &tvID, Ocupacion: 2, Millares: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Total.String()) // 7 × 2 × 3
}

func TestCrearPedido_CatalogoCruzado(t *testing.T) {
	f := buildPedidoSvc(t)
	tvID := f.volante.ID.String()

	// A tarjetas pedido cannot reference the flyer catalog.
	_, err := f.svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteID: f.cliente.ID.String(),
		Tipo:      model.TipoTarjetas,
		Items:     []dto.ItemPedidoRequest{{TipoVolanteID: &tvID, Millares: 1}},
	})
	assert.ErrorContains(t, err, "requiere referencia_id")
}

func TestCambiarEstado_TransicionValida(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	actualizado, err := f.svc.CambiarEstado(context.Background(), id, "en_cupo")
	require.NoError(t, err)
	assert.Equal(t, "en_cupo", actualizado.Estado)
	assert.Equal(t, model.EstadoEnCupo, f.pedidoRepo.pedidos[id].Estado)
}

func TestCambiarEstado_TransicionInvalidaNoCambiaNada(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "terminado")
	var transErr *model.TransicionInvalidaError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, model.EstadoRecibido, transErr.De)
	assert.Equal(t, model.EstadoTerminado, transErr.A)

	// The stored state is untouched after a rejected transition.
	assert.Equal(t, model.EstadoRecibido, f.pedidoRepo.pedidos[id].Estado)
}

func TestCambiarEstado_CanceladoEsAbsorbente(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)

	_, err = f.svc.CambiarEstado(context.Background(), id, "recibido")
	var transErr *model.TransicionInvalidaError
	assert.ErrorAs(t, err, &transErr)
}

func TestCambiarEstado_GeneraMensajeYSupersede(t *testing.T) {
	f := buildPedidoSvc(t)
	f.plantillaRepo.plantillas = []*model.PlantillaMensaje{
		{ID: uuid.New(), Estado: model.EstadoRecibido, TipoPedido: model.TipoTarjetas,
			Cuerpo: "Hola {{.Empresa}}, recibimos tu pedido #{{.Consecutivo}}.", Activo: true},
		{ID: uuid.New(), Estado: model.EstadoEnCupo, TipoPedido: model.TipoTarjetas,
			Cuerpo: "Tu pedido #{{.Consecutivo}} ya esta programado.", Activo: true},
	}

	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	// Creation is the transition into "recibido": the welcome message exists.
	require.Len(t, f.mensajeRepo.mensajes, 1)
	assert.Equal(t, "Hola Acme Impresos, recibimos tu pedido #1.", f.mensajeRepo.mensajes[0].Contenido)

	_, err := f.svc.CambiarEstado(context.Background(), id, "en_cupo")
	require.NoError(t, err)

	// Two messages total, but only the newest one remains pending.
	require.Len(t, f.mensajeRepo.mensajes, 2)
	assert.True(t, f.mensajeRepo.mensajes[0].Reemplazado)
	assert.True(t, f.mensajeRepo.mensajes[1].Pendiente())
	assert.Equal(t, "Tu pedido #1 ya esta programado.", f.mensajeRepo.mensajes[1].Contenido)
}

func TestEliminar_SoloEstadosPermitidos(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	// Push the pedido into production; deleting it must be rejected.
	f.pedidoRepo.pedidos[id].Estado = model.EstadoEnProduccion
	err := f.svc.Eliminar(context.Background(), id)
	assert.ErrorContains(t, err, "no se puede eliminar")

	f.pedidoRepo.pedidos[id].Estado = model.EstadoRecibido
	require.NoError(t, f.svc.Eliminar(context.Background(), id))
	assert.NotContains(t, f.pedidoRepo.pedidos, id)
}

func TestAgregarItem_SoloEnRecibido(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	id := uuid.MustParse(resp.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, "en_cupo")
	require.NoError(t, err)

	_, err = f.svc.AgregarItem(context.Background(), id, refItem(f, 1, 1))
	assert.ErrorContains(t, err, "estado recibido")
}

func TestEliminarItem_BloqueadoSiEstaEnCupo(t *testing.T) {
	f := buildPedidoSvc(t)
	resp := f.crearTarjetas(t, refItem(f, 1, 1))
	pedidoID := uuid.MustParse(resp.ID)
	itemID := uuid.MustParse(resp.Items[0].ID)

	f.cupoRepo.porItem[itemID] = &model.CupoAsignacion{PedidoItemID: itemID}
	err := f.svc.EliminarItem(context.Background(), pedidoID, itemID)
	assert.ErrorContains(t, err, "asignado a un cupo")

	delete(f.cupoRepo.porItem, itemID)
	require.NoError(t, f.svc.EliminarItem(context.Background(), pedidoID, itemID))
}
