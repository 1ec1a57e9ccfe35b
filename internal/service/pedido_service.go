package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/infra"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/pricing"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
	"github.com/viktorhino/gestor-cupos-sub001/internal/worker"
)

type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error)
	// Eliminar is guarded by a configurable state whitelist; by default only
	// pedidos in "recibido" or "cancelado" can be deleted.
	Eliminar(ctx context.Context, id uuid.UUID) error
	// CambiarEstado applies one state-machine transition and fires the
	// notification trigger in the same transaction.
	CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.PedidoResponse, error)
	AgregarItem(ctx context.Context, pedidoID uuid.UUID, req dto.ItemPedidoRequest) (*dto.PedidoResponse, error)
	EliminarItem(ctx context.Context, pedidoID, itemID uuid.UUID) error
	// OrdenPDF renders the production order sheet and returns its file path.
	OrdenPDF(ctx context.Context, id uuid.UUID) (string, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	clienteRepo  repository.ClienteRepository
	catalogoRepo repository.CatalogoRepository
	cupoRepo     repository.CupoRepository
	mensajes     MensajeService
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
	metrics      *metrics.Metrics
	locks        keyedMutex
}

func NewPedidoService(
	repo repository.PedidoRepository,
	clienteRepo repository.ClienteRepository,
	catalogoRepo repository.CatalogoRepository,
	cupoRepo repository.CupoRepository,
	mensajes MensajeService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
	m *metrics.Metrics,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		catalogoRepo: catalogoRepo,
		cupoRepo:     cupoRepo,
		mensajes:     mensajes,
		dispatcher:   dispatcher,
		cfg:          cfg,
		metrics:      m,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Resolves catalog entries, prices every item, reserves the consecutivo and
// persists the pedido in one transaction. The creation itself counts as the
// transition into "recibido", so the welcome notification (if a template
// exists) fires here too.

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, &ValidationError{Detalle: "cliente_id invalido"}
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cliente"}
	}

	items := make([]model.PedidoItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := s.resolverItem(ctx, req.Tipo, itemReq)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, *item)
	}

	pedido := &model.Pedido{
		ClienteID:      clienteID,
		Tipo:           req.Tipo,
		Estado:         model.EstadoRecibido,
		FechaRecepcion: time.Now(),
		Notas:          req.Notas,
		ImagenURL:      req.ImagenURL,
		Descuento:      req.Descuento,
		Items:          items,
	}

	var mensaje *model.MensajeWhatsapp
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		consecutivo, err := s.repo.NextConsecutivo(ctx, tx)
		if err != nil {
			return fmt.Errorf("reservando consecutivo: %w", err)
		}
		pedido.Consecutivo = consecutivo

		if err := s.repo.Create(ctx, tx, pedido); err != nil {
			return err
		}

		pedido.Cliente = cliente
		mensaje, err = s.mensajes.ProcesarTransicionTx(ctx, tx, pedido, model.EstadoRecibido)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.enviarCopiaEmail(ctx, cliente, pedido, mensaje)
	return s.toResponse(pedido), nil
}

// resolverItem validates the catalog reference against the order type,
// denormalizes the batch group and prices the line.
func (s *pedidoService) resolverItem(ctx context.Context, tipo string, req dto.ItemPedidoRequest) (*model.PedidoItem, error) {
	item := &model.PedidoItem{
		Ocupacion: req.Ocupacion,
		Millares:  req.Millares,
		Notas:     req.Notas,
	}

	switch tipo {
	case model.TipoTarjetas:
		if req.ReferenciaID == nil || req.TipoVolanteID != nil {
			return nil, &ValidationError{Detalle: "un pedido de tarjetas requiere referencia_id (y no tipo_volante_id)"}
		}
		refID, err := uuid.Parse(*req.ReferenciaID)
		if err != nil {
			return nil, &ValidationError{Detalle: "referencia_id invalido"}
		}
		ref, err := s.catalogoRepo.FindReferenciaByID(ctx, refID)
		if err != nil {
			return nil, &NotFoundError{Entidad: "referencia de tarjeta"}
		}
		item.ReferenciaID = &ref.ID
		item.Grupo = ref.Grupo
		if item.Ocupacion == 0 {
			item.Ocupacion = ref.OcupacionDefecto
		}

		terminaciones := make([]pricing.Terminacion, 0, len(req.Terminaciones))
		for _, t := range req.Terminaciones {
			item.Terminaciones = append(item.Terminaciones, model.Terminacion{
				Nombre: t.Nombre, Precio: t.Precio, Cantidad: t.Cantidad,
			})
			terminaciones = append(terminaciones, pricing.Terminacion{Precio: t.Precio, Cantidad: t.Cantidad})
		}
		item.PrecioTotal = pricing.PrecioTarjeta(ref.PrecioBase, terminaciones, item.Ocupacion, item.Millares)

	case model.TipoVolantes:
		if req.TipoVolanteID == nil || req.ReferenciaID != nil {
			return nil, &ValidationError{Detalle: "un pedido de volantes requiere tipo_volante_id (y no referencia_id)"}
		}
		if len(req.Terminaciones) > 0 {
			return nil, &ValidationError{Detalle: "los volantes no llevan terminaciones especiales"}
		}
		tvID, err := uuid.Parse(*req.TipoVolanteID)
		if err != nil {
			return nil, &ValidationError{Detalle: "tipo_volante_id invalido"}
		}
		tv, err := s.catalogoRepo.FindTipoVolanteByID(ctx, tvID)
		if err != nil {
			return nil, &NotFoundError{Entidad: "tipo de volante"}
		}
		item.TipoVolanteID = &tv.ID
		item.Grupo = tv.Grupo
		if item.Ocupacion == 0 {
			item.Ocupacion = tv.OcupacionDefecto
		}
		item.PrecioTotal = pricing.PrecioVolante(tv.PrecioBase, item.Ocupacion, item.Millares)

	default:
		return nil, &ValidationError{Detalle: fmt.Sprintf("tipo de pedido desconocido %q", tipo)}
	}

	return item, nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.PedidoResponse, error) {
	nuevo, err := model.ParseEstado(nuevoEstado)
	if err != nil {
		return nil, &ValidationError{Detalle: err.Error()}
	}

	// Transitions for one pedido are serialized: two concurrent requests must
	// not both succeed from the same prior state.
	unlock := s.locks.Lock("pedido:" + id.String())
	defer unlock()

	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}

	if err := model.ValidarTransicion(pedido.Estado, nuevo); err != nil {
		return nil, err
	}

	anterior := pedido.Estado
	var mensaje *model.MensajeWhatsapp
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, pedido.ID, nuevo); err != nil {
			return err
		}
		mensaje, err = s.mensajes.ProcesarTransicionTx(ctx, tx, pedido, nuevo)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	pedido.Estado = nuevo
	s.metrics.TransicionesEstado.WithLabelValues(string(anterior), string(nuevo)).Inc()

	s.enviarCopiaEmail(ctx, pedido.Cliente, pedido, mensaje)
	return s.toResponse(pedido), nil
}

// enviarCopiaEmail enqueues an email copy of the rendered notification after
// the transaction committed. Best-effort: the WhatsApp flow is the primary
// channel and does not depend on this.
func (s *pedidoService) enviarCopiaEmail(ctx context.Context, cliente *model.Cliente, pedido *model.Pedido, mensaje *model.MensajeWhatsapp) {
	if s.dispatcher == nil || mensaje == nil || cliente == nil || cliente.Email == nil {
		return
	}
	s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: *cliente.Email,
		Subject: fmt.Sprintf("Pedido #%d — %s", pedido.Consecutivo, mensaje.Estado),
		Body:    mensaje.Contenido,
	})
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}
	return s.toResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PedidoListResponse{
		Data:  make([]dto.PedidoResponse, len(pedidos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range pedidos {
		resp.Data[i] = *s.toResponse(&pedidos[i])
	}
	return resp, nil
}

func (s *pedidoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}
	if req.Descuento != nil {
		pedido.Descuento = *req.Descuento
	}
	if req.Notas != nil {
		pedido.Notas = req.Notas
	}
	if req.ImagenURL != nil {
		pedido.ImagenURL = req.ImagenURL
	}
	if err := s.repo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return s.toResponse(pedido), nil
}

func (s *pedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Entidad: "pedido"}
	}

	permitido := false
	for _, estado := range s.cfg.EstadosEliminacionPermitidos() {
		if string(pedido.Estado) == estado {
			permitido = true
			break
		}
	}
	if !permitido {
		return &ValidationError{Detalle: fmt.Sprintf(
			"no se puede eliminar un pedido en estado %q: se perderian registros de produccion", pedido.Estado)}
	}
	return s.repo.Delete(ctx, id)
}

func (s *pedidoService) AgregarItem(ctx context.Context, pedidoID uuid.UUID, req dto.ItemPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}
	if pedido.Estado != model.EstadoRecibido {
		return nil, &ValidationError{Detalle: "solo se pueden agregar items a pedidos en estado recibido"}
	}

	item, err := s.resolverItem(ctx, pedido.Tipo, req)
	if err != nil {
		return nil, err
	}
	item.PedidoID = pedido.ID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	pedido.Items = append(pedido.Items, *item)
	return s.toResponse(pedido), nil
}

func (s *pedidoService) EliminarItem(ctx context.Context, pedidoID, itemID uuid.UUID) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil || item.PedidoID != pedidoID {
		return &NotFoundError{Entidad: "item de pedido"}
	}
	// An item placed in a cupo must be deallocated before removal.
	if _, err := s.cupoRepo.FindAsignacionByItem(ctx, itemID); err == nil {
		return &ValidationError{Detalle: "el item esta asignado a un cupo; retirelo del cupo primero"}
	}
	return s.repo.DeleteItem(ctx, itemID)
}

func (s *pedidoService) OrdenPDF(ctx context.Context, id uuid.UUID) (string, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", &NotFoundError{Entidad: "pedido"}
	}
	return infra.GenerateOrdenPDF(pedido, s.cfg.PDFStoragePath)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pedidoService) toResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:             p.ID.String(),
		Consecutivo:    p.Consecutivo,
		ClienteID:      p.ClienteID.String(),
		Tipo:           p.Tipo,
		Estado:         string(p.Estado),
		FechaRecepcion: p.FechaRecepcion.Format("2006-01-02"),
		Descuento:      p.Descuento,
		Total:          p.Total(),
		Notas:          p.Notas,
		ImagenURL:      p.ImagenURL,
		CreatedAt:      p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Cliente != nil {
		resp.Empresa = p.Cliente.Empresa
	}

	abonado := decimal.Zero
	for _, pago := range p.Pagos {
		abonado = abonado.Add(pago.Monto)
	}
	resp.Abonado = abonado
	resp.Saldo = resp.Total.Sub(abonado)

	resp.Items = make([]dto.ItemPedidoResponse, len(p.Items))
	for i, item := range p.Items {
		itemResp := dto.ItemPedidoResponse{
			ID:          item.ID.String(),
			Grupo:       item.Grupo,
			Ocupacion:   item.Ocupacion,
			Millares:    item.Millares,
			PrecioTotal: item.PrecioTotal,
			Notas:       item.Notas,
		}
		if item.Referencia != nil {
			itemResp.Referencia = item.Referencia.Nombre
		}
		if item.TipoVolante != nil {
			itemResp.TipoVolante = item.TipoVolante.Nombre
		}
		for _, t := range item.Terminaciones {
			itemResp.Terminaciones = append(itemResp.Terminaciones, dto.TerminacionResponse{
				Nombre: t.Nombre, Precio: t.Precio, Cantidad: t.Cantidad,
			})
		}
		resp.Items[i] = itemResp
	}
	return resp
}
