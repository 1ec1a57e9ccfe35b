package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
	"github.com/viktorhino/gestor-cupos-sub001/internal/wa"
)

// MensajeService materializes client notifications from templates as pedidos
// move through their lifecycle, and tracks their pending/copied state.
type MensajeService interface {
	// ProcesarTransicionTx runs inside the status-change transaction of the
	// pedido: it resolves the template for (nuevoEstado, tipo), renders it,
	// supersedes any pending message and inserts the new one. Returns
	// (nil, nil) when no template exists for the pair — that is a silent
	// no-op, not an error.
	ProcesarTransicionTx(ctx context.Context, tx *gorm.DB, pedido *model.Pedido, nuevoEstado model.EstadoPedido) (*model.MensajeWhatsapp, error)

	// MarcarCopiado acknowledges a message. Acknowledging twice is a no-op
	// success.
	MarcarCopiado(ctx context.Context, id uuid.UUID) error

	// Pendiente returns the current actionable message for the pedido, or
	// (nil, nil) when there is none.
	Pendiente(ctx context.Context, pedidoID uuid.UUID) (*dto.MensajeResponse, error)

	Historial(ctx context.Context, pedidoID uuid.UUID) ([]dto.MensajeResponse, error)
}

// DatosPlantilla are the fields available inside a template body.
type DatosPlantilla struct {
	Empresa     string
	Contacto    string
	Consecutivo int
	Tipo        string
	Estado      string
	Total       decimal.Decimal
	Saldo       decimal.Decimal
}

type mensajeService struct {
	repo          repository.MensajeRepository
	plantillaRepo repository.PlantillaRepository
	pedidoRepo    repository.PedidoRepository
	metrics       *metrics.Metrics
}

func NewMensajeService(
	repo repository.MensajeRepository,
	plantillaRepo repository.PlantillaRepository,
	pedidoRepo repository.PedidoRepository,
	m *metrics.Metrics,
) MensajeService {
	return &mensajeService{repo: repo, plantillaRepo: plantillaRepo, pedidoRepo: pedidoRepo, metrics: m}
}

func (s *mensajeService) ProcesarTransicionTx(ctx context.Context, tx *gorm.DB, pedido *model.Pedido, nuevoEstado model.EstadoPedido) (*model.MensajeWhatsapp, error) {
	plantilla, err := s.plantillaRepo.FindByEstadoTipo(ctx, nuevoEstado, pedido.Tipo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No template configured for this (estado, tipo): nothing to send.
			return nil, nil
		}
		return nil, fmt.Errorf("buscando plantilla para %s/%s: %w", nuevoEstado, pedido.Tipo, err)
	}

	contenido, err := renderPlantilla(plantilla.Cuerpo, datosDe(pedido, nuevoEstado))
	if err != nil {
		return nil, fmt.Errorf("renderizando plantilla %s: %w", plantilla.ID, err)
	}

	// Supersede-then-insert runs inside the caller's tx so the "at most one
	// pending message per pedido" invariant survives concurrent transitions.
	if err := s.repo.SupersedePendientesTx(tx, pedido.ID); err != nil {
		return nil, fmt.Errorf("reemplazando mensajes pendientes: %w", err)
	}

	mensaje := &model.MensajeWhatsapp{
		PedidoID:    pedido.ID,
		Estado:      nuevoEstado,
		PlantillaID: plantilla.ID,
		Contenido:   contenido,
	}
	if err := s.repo.CreateTx(tx, mensaje); err != nil {
		return nil, fmt.Errorf("creando mensaje: %w", err)
	}

	s.metrics.MensajesGenerados.WithLabelValues(string(nuevoEstado)).Inc()
	return mensaje, nil
}

func (s *mensajeService) MarcarCopiado(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entidad: "mensaje"}
		}
		return err
	}
	return s.repo.MarcarCopiado(ctx, id)
}

func (s *mensajeService) Pendiente(ctx context.Context, pedidoID uuid.UUID) (*dto.MensajeResponse, error) {
	mensaje, err := s.repo.FindPendienteByPedido(ctx, pedidoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.toResponse(ctx, mensaje), nil
}

func (s *mensajeService) Historial(ctx context.Context, pedidoID uuid.UUID) ([]dto.MensajeResponse, error) {
	mensajes, err := s.repo.ListByPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MensajeResponse, len(mensajes))
	for i := range mensajes {
		resp[i] = *s.toResponse(ctx, &mensajes[i])
	}
	return resp, nil
}

func (s *mensajeService) toResponse(ctx context.Context, m *model.MensajeWhatsapp) *dto.MensajeResponse {
	resp := &dto.MensajeResponse{
		ID:          m.ID.String(),
		PedidoID:    m.PedidoID.String(),
		Estado:      string(m.Estado),
		Contenido:   m.Contenido,
		Copiado:     m.Copiado,
		Reemplazado: m.Reemplazado,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.EnviadoAt != nil {
		enviado := m.EnviadoAt.Format("2006-01-02T15:04:05Z")
		resp.EnviadoAt = &enviado
	}
	// The deep link needs the client's phone; a missing pedido only costs
	// the link, never the message itself.
	if pedido, err := s.pedidoRepo.FindByID(ctx, m.PedidoID); err == nil && pedido.Cliente != nil {
		resp.Link = wa.Link(pedido.Cliente.Telefono, m.Contenido)
	}
	return resp
}

func datosDe(pedido *model.Pedido, estado model.EstadoPedido) DatosPlantilla {
	datos := DatosPlantilla{
		Consecutivo: pedido.Consecutivo,
		Tipo:        pedido.Tipo,
		Estado:      string(estado),
		Total:       pedido.Total(),
	}
	abonado := decimal.Zero
	for _, p := range pedido.Pagos {
		abonado = abonado.Add(p.Monto)
	}
	datos.Saldo = datos.Total.Sub(abonado)
	if pedido.Cliente != nil {
		datos.Empresa = pedido.Cliente.Empresa
		datos.Contacto = pedido.Cliente.Contacto
	}
	return datos
}

func renderPlantilla(cuerpo string, datos DatosPlantilla) (string, error) {
	tmpl, err := template.New("plantilla").Parse(cuerpo)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, datos); err != nil {
		return "", err
	}
	return b.String(), nil
}
