package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/compat"
	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
)

// CupoService is the batch allocation engine: it places pedido items into
// daily production slots without exceeding capacity and without violating the
// group compatibility rules, evaluated against the proposed final content of
// the slot.
type CupoService interface {
	Crear(ctx context.Context, req dto.CrearCupoRequest) (*dto.CupoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CupoResponse, error)
	Listar(ctx context.Context, filter dto.CupoFilter) ([]dto.CupoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCupoRequest) (*dto.CupoResponse, error)

	// Asignar places the item in the cupo. Fails with CapacidadExcedidaError
	// when the item does not fit and with compat.IncompatibilidadError when
	// the resulting content would violate the grouping rules.
	Asignar(ctx context.Context, cupoID uuid.UUID, req dto.AsignarItemRequest) (*dto.CupoResponse, error)

	// Desasignar removes a placement. Removing an absent placement is a no-op
	// success.
	Desasignar(ctx context.Context, cupoID, pedidoItemID uuid.UUID) (*dto.CupoResponse, error)

	// Mover relocates a placement between cupos atomically: if the target
	// rejects the item, the source placement stays untouched.
	Mover(ctx context.Context, cupoOrigenID uuid.UUID, req dto.MoverItemRequest) (*dto.CupoResponse, error)

	// AsignarAutomatico picks the open cupo in the date range with the least
	// remaining capacity that still fits the item (best fit, ties broken by
	// earliest date) and places it there.
	AsignarAutomatico(ctx context.Context, req dto.AsignarAutomaticoRequest) (*dto.CupoResponse, error)
}

type cupoService struct {
	repo       repository.CupoRepository
	pedidoRepo repository.PedidoRepository
	cfg        *config.Config
	metrics    *metrics.Metrics
	locks      keyedMutex
}

func NewCupoService(
	repo repository.CupoRepository,
	pedidoRepo repository.PedidoRepository,
	cfg *config.Config,
	m *metrics.Metrics,
) CupoService {
	return &cupoService{repo: repo, pedidoRepo: pedidoRepo, cfg: cfg, metrics: m}
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *cupoService) Crear(ctx context.Context, req dto.CrearCupoRequest) (*dto.CupoResponse, error) {
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, &ValidationError{Detalle: "fecha invalida, se espera YYYY-MM-DD"}
	}
	capacidad := req.Capacidad
	if capacidad == 0 {
		capacidad = s.cfg.CapacidadCupoDefecto
	}

	cupo := &model.Cupo{Nombre: req.Nombre, Fecha: fecha, Capacidad: capacidad}
	if err := s.repo.Create(ctx, cupo); err != nil {
		return nil, err
	}
	return toCupoResponse(cupo), nil
}

func (s *cupoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CupoResponse, error) {
	cupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cupo"}
	}
	return toCupoResponse(cupo), nil
}

func (s *cupoService) Listar(ctx context.Context, filter dto.CupoFilter) ([]dto.CupoResponse, error) {
	var desde, hasta time.Time
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			desde = t
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			hasta = t
		}
	}

	cupos, err := s.repo.ListByRango(ctx, desde, hasta, filter.Cerrado)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CupoResponse, len(cupos))
	for i := range cupos {
		resp[i] = *toCupoResponse(&cupos[i])
	}
	return resp, nil
}

func (s *cupoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCupoRequest) (*dto.CupoResponse, error) {
	unlock := s.locks.Lock("cupo:" + id.String())
	defer unlock()

	cupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cupo"}
	}

	if req.Nombre != nil {
		cupo.Nombre = *req.Nombre
	}
	if req.Capacidad != nil {
		// Capacity never shrinks below the occupation already placed.
		if *req.Capacidad < cupo.OcupacionUsada() {
			return nil, &ValidationError{Detalle: "la capacidad no puede ser menor a la ocupacion ya asignada"}
		}
		cupo.Capacidad = *req.Capacidad
	}
	if req.Cerrado != nil {
		cupo.Cerrado = *req.Cerrado
	}

	if err := s.repo.Update(ctx, cupo); err != nil {
		return nil, err
	}
	return toCupoResponse(cupo), nil
}

// ── Allocation ────────────────────────────────────────────────────────────────

func (s *cupoService) Asignar(ctx context.Context, cupoID uuid.UUID, req dto.AsignarItemRequest) (*dto.CupoResponse, error) {
	itemID, err := uuid.Parse(req.PedidoItemID)
	if err != nil {
		return nil, &ValidationError{Detalle: "pedido_item_id invalido"}
	}
	item, err := s.itemAsignable(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.asignarEnCupo(ctx, cupoID, item); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, cupoID)
}

// itemAsignable loads the item and verifies it is eligible for placement: its
// pedido must not have entered production yet, and the item must not already
// sit in another cupo.
func (s *cupoService) itemAsignable(ctx context.Context, itemID uuid.UUID) (*model.PedidoItem, error) {
	item, err := s.pedidoRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "item de pedido"}
	}
	pedido, err := s.pedidoRepo.FindByID(ctx, item.PedidoID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}
	if pedido.Estado != model.EstadoRecibido && pedido.Estado != model.EstadoEnCupo {
		return nil, &ValidationError{Detalle: "solo items de pedidos en estado recibido o en_cupo pueden asignarse a un cupo"}
	}
	if _, err := s.repo.FindAsignacionByItem(ctx, itemID); err == nil {
		return nil, &ValidationError{Detalle: "el item ya esta asignado a un cupo"}
	}
	return item, nil
}

// asignarEnCupo runs the serialized, transactional placement: re-read the
// cupo inside the tx, validate the proposed final content and insert.
func (s *cupoService) asignarEnCupo(ctx context.Context, cupoID uuid.UUID, item *model.PedidoItem) error {
	unlock := s.locks.Lock("cupo:" + cupoID.String())
	defer unlock()

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		cupo, err := s.repo.FindByIDTx(tx, cupoID)
		if err != nil {
			return &NotFoundError{Entidad: "cupo"}
		}
		if cupo.Cerrado {
			return &ValidationError{Detalle: "el cupo esta cerrado"}
		}
		if err := validarContenidoPropuesto(cupo, item); err != nil {
			return err
		}
		return s.repo.CreateAsignacionTx(tx, &model.CupoAsignacion{
			CupoID:       cupoID,
			PedidoItemID: item.ID,
			Grupo:        item.Grupo,
			Ocupacion:    item.Ocupacion,
		})
	})

	s.metrics.AsignacionesCupo.WithLabelValues(resultadoDe(err)).Inc()
	return err
}

// validarContenidoPropuesto checks compatibility and capacity against the
// content the cupo would have after adding item, never incrementally, so the
// outcome does not depend on insertion order.
func validarContenidoPropuesto(cupo *model.Cupo, item *model.PedidoItem) error {
	propuesto := make([]compat.Item, 0, len(cupo.Asignaciones)+1)
	for _, a := range cupo.Asignaciones {
		propuesto = append(propuesto, compat.Item{Grupo: a.Grupo, Ocupacion: a.Ocupacion})
	}
	propuesto = append(propuesto, compat.Item{Grupo: item.Grupo, Ocupacion: item.Ocupacion})

	if err := compat.Validar(propuesto); err != nil {
		return err
	}
	if restante := cupo.CapacidadRestante(); item.Ocupacion > restante {
		return &CapacidadExcedidaError{Restante: restante, Solicitada: item.Ocupacion}
	}
	return nil
}

func resultadoDe(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, new(*compat.IncompatibilidadError)):
		return "incompatible"
	case errors.As(err, new(*CapacidadExcedidaError)):
		return "capacidad_excedida"
	default:
		return "error"
	}
}

func (s *cupoService) Desasignar(ctx context.Context, cupoID, pedidoItemID uuid.UUID) (*dto.CupoResponse, error) {
	unlock := s.locks.Lock("cupo:" + cupoID.String())
	defer unlock()

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.DeleteAsignacionTx(tx, cupoID, pedidoItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx, cupoID)
}

func (s *cupoService) Mover(ctx context.Context, cupoOrigenID uuid.UUID, req dto.MoverItemRequest) (*dto.CupoResponse, error) {
	itemID, err := uuid.Parse(req.PedidoItemID)
	if err != nil {
		return nil, &ValidationError{Detalle: "pedido_item_id invalido"}
	}
	destinoID, err := uuid.Parse(req.CupoDestino)
	if err != nil {
		return nil, &ValidationError{Detalle: "cupo_destino invalido"}
	}
	if destinoID == cupoOrigenID {
		return nil, &ValidationError{Detalle: "el cupo destino es el mismo cupo origen"}
	}

	item, err := s.pedidoRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "item de pedido"}
	}

	unlock := s.locks.LockPair("cupo:"+cupoOrigenID.String(), "cupo:"+destinoID.String())
	defer unlock()

	// Deallocate and allocate share one transaction, and the destination is
	// validated before the source row is touched: a rejected move leaves the
	// origin placement intact without depending on the rollback.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		destino, err := s.repo.FindByIDTx(tx, destinoID)
		if err != nil {
			return &NotFoundError{Entidad: "cupo destino"}
		}
		if destino.Cerrado {
			return &ValidationError{Detalle: "el cupo destino esta cerrado"}
		}
		if err := validarContenidoPropuesto(destino, item); err != nil {
			return err
		}

		rows, err := s.repo.DeleteAsignacionTx(tx, cupoOrigenID, itemID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &NotFoundError{Entidad: "asignacion"}
		}
		return s.repo.CreateAsignacionTx(tx, &model.CupoAsignacion{
			CupoID:       destinoID,
			PedidoItemID: item.ID,
			Grupo:        item.Grupo,
			Ocupacion:    item.Ocupacion,
		})
	})

	s.metrics.AsignacionesCupo.WithLabelValues(resultadoDe(txErr)).Inc()
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, destinoID)
}

func (s *cupoService) AsignarAutomatico(ctx context.Context, req dto.AsignarAutomaticoRequest) (*dto.CupoResponse, error) {
	itemID, err := uuid.Parse(req.PedidoItemID)
	if err != nil {
		return nil, &ValidationError{Detalle: "pedido_item_id invalido"}
	}
	desde, err := time.Parse("2006-01-02", req.Desde)
	if err != nil {
		return nil, &ValidationError{Detalle: "desde invalido, se espera YYYY-MM-DD"}
	}
	hasta, err := time.Parse("2006-01-02", req.Hasta)
	if err != nil {
		return nil, &ValidationError{Detalle: "hasta invalido, se espera YYYY-MM-DD"}
	}

	item, err := s.itemAsignable(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// ListByRango orders by fecha ascending, so keeping the first candidate on
	// equal remaining capacity gives the earliest-date tie break.
	cupos, err := s.repo.ListByRango(ctx, desde, hasta, "false")
	if err != nil {
		return nil, err
	}

	candidatos := make([]*model.Cupo, 0, len(cupos))
	for i := range cupos {
		c := &cupos[i]
		if validarContenidoPropuesto(c, item) == nil {
			candidatos = append(candidatos, c)
		}
	}
	if len(candidatos) == 0 {
		return nil, &ValidationError{Detalle: "ningun cupo abierto en el rango puede recibir el item"}
	}

	mejor := candidatos[0]
	for _, c := range candidatos[1:] {
		if c.CapacidadRestante() < mejor.CapacidadRestante() {
			mejor = c
		}
	}

	// Another allocation may have landed since the candidate scan; the checks
	// re-run inside the tx, so a race surfaces as a normal rejection. Fall
	// through the remaining candidates in best-fit order before giving up.
	ordenados := ordenarMejorAjuste(candidatos, mejor)
	var ultimo error
	for _, c := range ordenados {
		if err := s.asignarEnCupo(ctx, c.ID, item); err != nil {
			if errors.As(err, new(*CapacidadExcedidaError)) || errors.As(err, new(*compat.IncompatibilidadError)) {
				ultimo = err
				continue
			}
			return nil, err
		}
		return s.Obtener(ctx, c.ID)
	}
	return nil, ultimo
}

// ordenarMejorAjuste returns the candidates starting at mejor, followed by the
// rest sorted by remaining capacity ascending (stable on the incoming
// date-ascending order).
func ordenarMejorAjuste(candidatos []*model.Cupo, mejor *model.Cupo) []*model.Cupo {
	resto := make([]*model.Cupo, 0, len(candidatos)-1)
	for _, c := range candidatos {
		if c != mejor {
			resto = append(resto, c)
		}
	}
	for i := 1; i < len(resto); i++ {
		for j := i; j > 0 && resto[j].CapacidadRestante() < resto[j-1].CapacidadRestante(); j-- {
			resto[j], resto[j-1] = resto[j-1], resto[j]
		}
	}
	return append([]*model.Cupo{mejor}, resto...)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func toCupoResponse(c *model.Cupo) *dto.CupoResponse {
	resp := &dto.CupoResponse{
		ID:                c.ID.String(),
		Nombre:            c.Nombre,
		Fecha:             c.Fecha.Format("2006-01-02"),
		Capacidad:         c.Capacidad,
		OcupacionUsada:    c.OcupacionUsada(),
		CapacidadRestante: c.CapacidadRestante(),
		Cerrado:           c.Cerrado,
		Asignaciones:      make([]dto.AsignacionResponse, len(c.Asignaciones)),
	}
	for i, a := range c.Asignaciones {
		ar := dto.AsignacionResponse{
			PedidoItemID: a.PedidoItemID.String(),
			Grupo:        a.Grupo,
			Ocupacion:    a.Ocupacion,
		}
		if a.PedidoItem != nil && a.PedidoItem.Pedido != nil {
			ar.Consecutivo = a.PedidoItem.Pedido.Consecutivo
		}
		resp.Asignaciones[i] = ar
	}
	return resp
}
