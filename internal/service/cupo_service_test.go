package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktorhino/gestor-cupos-sub001/internal/compat"
	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

func buildCupoSvc() (CupoService, *stubCupoRepo, *stubPedidoRepo) {
	cupoRepo := newStubCupoRepo()
	pedidoRepo := newStubPedidoRepo()
	cfg := &config.Config{CapacidadCupoDefecto: 30}
	svc := NewCupoService(cupoRepo, pedidoRepo, cfg, metrics.Registry("test"))
	return svc, cupoRepo, pedidoRepo
}

func seedCupo(t *testing.T, repo *stubCupoRepo, nombre, fecha string, capacidad int) *model.Cupo {
	t.Helper()
	f, err := time.Parse("2006-01-02", fecha)
	require.NoError(t, err)
	c := &model.Cupo{Nombre: nombre, Fecha: f, Capacidad: capacidad}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

// seedItem creates a pedido in the given state holding a single item of the
// given batch group and occupation, and returns that item.
func seedItem(t *testing.T, repo *stubPedidoRepo, grupo string, ocupacion int, estado model.EstadoPedido) *model.PedidoItem {
	t.Helper()
	tipo := model.TipoTarjetas
	if compat.CategoriaDe(grupo) == compat.CategoriaVolante {
		tipo = model.TipoVolantes
	}
	p := &model.Pedido{
		Tipo:   tipo,
		Estado: estado,
		Items:  []model.PedidoItem{{Grupo: grupo, Ocupacion: ocupacion, Millares: 1}},
	}
	require.NoError(t, repo.Create(context.Background(), nil, p))
	return &p.Items[0]
}

func TestAsignar_OcupacionExacta(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 5)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 5, model.EstadoRecibido)

	resp, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{
		PedidoItemID: item.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.OcupacionUsada)
	assert.Equal(t, 0, resp.CapacidadRestante)
	assert.Len(t, resp.Asignaciones, 1)
}

func TestAsignar_CapacidadExcedida(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 5)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 6, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{
		PedidoItemID: item.ID.String(),
	})
	var capErr *CapacidadExcedidaError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5, capErr.Restante)
	assert.Equal(t, 6, capErr.Solicitada)

	// A rejected allocation leaves the cupo untouched.
	assert.Empty(t, cupo.Asignaciones)
}

func TestAsignar_ItemYaAsignado(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupoA := seedCupo(t, cupoRepo, "Cupo A", "2026-09-07", 10)
	cupoB := seedCupo(t, cupoRepo, "Cupo B", "2026-09-08", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 2, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupoA.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	_, err = svc.Asignar(context.Background(), cupoB.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	assert.ErrorContains(t, err, "ya esta asignado")
}

func TestAsignar_PedidoEnProduccion(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 2, model.EstadoEnProduccion)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	assert.ErrorContains(t, err, "recibido o en_cupo")
}

func TestAsignar_CupoCerrado(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	cupo.Cerrado = true
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 2, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	assert.ErrorContains(t, err, "cerrado")
}

func TestAsignar_TarjetasYVolantesNoMezclan(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo volantes", "2026-09-07", 20)
	volante := seedItem(t, pedidoRepo, "volante_medio", 4, model.EstadoRecibido)
	tarjeta := seedItem(t, pedidoRepo, compat.GrupoBrillo, 2, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: volante.ID.String()})
	require.NoError(t, err)

	_, err = svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: tarjeta.ID.String()})
	var incErr *compat.IncompatibilidadError
	require.ErrorAs(t, err, &incErr)
	assert.Contains(t, incErr.Motivos[0], "no pueden compartir")
}

func TestAsignar_MezclaBrilloMateReserva(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo mixto", "2026-09-07", 30)

	mate := seedItem(t, pedidoRepo, compat.GrupoMateReserva, 2, model.EstadoRecibido)
	brillo := seedItem(t, pedidoRepo, compat.GrupoBrillo, 1, model.EstadoRecibido)
	otroBrillo := seedItem(t, pedidoRepo, compat.GrupoBrillo, 1, model.EstadoRecibido)

	// 2 + 1 = 3, multiple of 3: the mix is allowed.
	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: mate.ID.String()})
	require.NoError(t, err)
	_, err = svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: brillo.ID.String()})
	require.NoError(t, err)

	// Adding one more unit breaks the multiple-of-3 rule for the whole set.
	_, err = svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: otroBrillo.ID.String()})
	var incErr *compat.IncompatibilidadError
	require.ErrorAs(t, err, &incErr)
	assert.Contains(t, incErr.Motivos[0], "multiplo de 3")
}

func TestDesasignar_RestauraCapacidad(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 4, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	resp, err := svc.Desasignar(context.Background(), cupo.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.CapacidadRestante)
	assert.Empty(t, resp.Asignaciones)

	// Removing an absent placement is a no-op success.
	resp, err = svc.Desasignar(context.Background(), cupo.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.CapacidadRestante)
}

func TestMover_EntreCupos(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	origen := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	destino := seedCupo(t, cupoRepo, "Cupo martes", "2026-09-08", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 3, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), origen.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	resp, err := svc.Mover(context.Background(), origen.ID, dto.MoverItemRequest{
		PedidoItemID: item.ID.String(),
		CupoDestino:  destino.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, destino.ID.String(), resp.ID)
	assert.Equal(t, 3, resp.OcupacionUsada)
	assert.Empty(t, origen.Asignaciones)
}

func TestMover_MismoCupo(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 3, model.EstadoRecibido)

	_, err := svc.Mover(context.Background(), cupo.ID, dto.MoverItemRequest{
		PedidoItemID: item.ID.String(),
		CupoDestino:  cupo.ID.String(),
	})
	assert.ErrorContains(t, err, "mismo cupo")
}

func TestMover_DestinoCerrado(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	origen := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	destino := seedCupo(t, cupoRepo, "Cupo martes", "2026-09-08", 10)
	destino.Cerrado = true
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 3, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), origen.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	_, err = svc.Mover(context.Background(), origen.ID, dto.MoverItemRequest{
		PedidoItemID: item.ID.String(),
		CupoDestino:  destino.ID.String(),
	})
	assert.ErrorContains(t, err, "cerrado")
	assert.Empty(t, destino.Asignaciones)

	// The rejected move leaves the origin placement untouched.
	require.Len(t, origen.Asignaciones, 1)
	assert.Equal(t, item.ID, origen.Asignaciones[0].PedidoItemID)
}

func TestMover_DestinoSinCapacidadConservaOrigen(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	origen := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	destino := seedCupo(t, cupoRepo, "Cupo martes", "2026-09-08", 2)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 3, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), origen.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	_, err = svc.Mover(context.Background(), origen.ID, dto.MoverItemRequest{
		PedidoItemID: item.ID.String(),
		CupoDestino:  destino.ID.String(),
	})
	var capErr *CapacidadExcedidaError
	require.ErrorAs(t, err, &capErr)
	assert.Empty(t, destino.Asignaciones)

	require.Len(t, origen.Asignaciones, 1)
	assert.Equal(t, item.ID, origen.Asignaciones[0].PedidoItemID)
}

func TestAsignarAutomatico_MejorAjuste(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	seedCupo(t, cupoRepo, "Holgado", "2026-09-07", 10)
	ajustado := seedCupo(t, cupoRepo, "Ajustado", "2026-09-08", 6)
	seedCupo(t, cupoRepo, "Ajustado tardio", "2026-09-09", 6)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 5, model.EstadoRecibido)

	// Two cupos tie at 6 units free; the earliest date wins.
	resp, err := svc.AsignarAutomatico(context.Background(), dto.AsignarAutomaticoRequest{
		PedidoItemID: item.ID.String(),
		Desde:        "2026-09-07",
		Hasta:        "2026-09-13",
	})
	require.NoError(t, err)
	assert.Equal(t, ajustado.ID.String(), resp.ID)
	assert.Equal(t, 1, resp.CapacidadRestante)
}

func TestAsignarAutomatico_IgnoraCerradosEIncompatibles(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cerrado := seedCupo(t, cupoRepo, "Cerrado", "2026-09-07", 6)
	cerrado.Cerrado = true
	deVolantes := seedCupo(t, cupoRepo, "Volantes", "2026-09-08", 6)
	abierto := seedCupo(t, cupoRepo, "Abierto", "2026-09-09", 10)

	volante := seedItem(t, pedidoRepo, "volante_cuarto", 2, model.EstadoRecibido)
	_, err := svc.Asignar(context.Background(), deVolantes.ID, dto.AsignarItemRequest{PedidoItemID: volante.ID.String()})
	require.NoError(t, err)

	tarjeta := seedItem(t, pedidoRepo, compat.GrupoBrillo, 3, model.EstadoRecibido)
	resp, err := svc.AsignarAutomatico(context.Background(), dto.AsignarAutomaticoRequest{
		PedidoItemID: tarjeta.ID.String(),
		Desde:        "2026-09-07",
		Hasta:        "2026-09-13",
	})
	require.NoError(t, err)
	assert.Equal(t, abierto.ID.String(), resp.ID)
}

func TestAsignarAutomatico_SinCandidatos(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	seedCupo(t, cupoRepo, "Pequeno", "2026-09-07", 2)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 5, model.EstadoRecibido)

	_, err := svc.AsignarAutomatico(context.Background(), dto.AsignarAutomaticoRequest{
		PedidoItemID: item.ID.String(),
		Desde:        "2026-09-07",
		Hasta:        "2026-09-13",
	})
	assert.ErrorContains(t, err, "ningun cupo")
}

func TestActualizar_CapacidadNoReduceBajoLoUsado(t *testing.T) {
	svc, cupoRepo, pedidoRepo := buildCupoSvc()
	cupo := seedCupo(t, cupoRepo, "Cupo lunes", "2026-09-07", 10)
	item := seedItem(t, pedidoRepo, compat.GrupoBrillo, 6, model.EstadoRecibido)

	_, err := svc.Asignar(context.Background(), cupo.ID, dto.AsignarItemRequest{PedidoItemID: item.ID.String()})
	require.NoError(t, err)

	menor := 5
	_, err = svc.Actualizar(context.Background(), cupo.ID, dto.ActualizarCupoRequest{Capacidad: &menor})
	assert.ErrorContains(t, err, "ocupacion ya asignada")

	mayor := 12
	resp, err := svc.Actualizar(context.Background(), cupo.ID, dto.ActualizarCupoRequest{Capacidad: &mayor})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Capacidad)
}

func TestCrear_CapacidadPorDefecto(t *testing.T) {
	svc, _, _ := buildCupoSvc()
	resp, err := svc.Crear(context.Background(), dto.CrearCupoRequest{Nombre: "Cupo nuevo", Fecha: "2026-09-07"})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Capacidad)

	_, err = svc.Crear(context.Background(), dto.CrearCupoRequest{Nombre: "Fecha mala", Fecha: "07/09/2026"})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
