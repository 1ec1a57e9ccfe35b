package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
)

// PagoService records payments against pedidos. Payments are an immutable
// ledger: once written they are never edited or removed, the balance is always
// derived from the full list.
type PagoService interface {
	Registrar(ctx context.Context, pedidoID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	Balance(ctx context.Context, pedidoID uuid.UUID) (*dto.BalanceResponse, error)
}

type pagoService struct {
	repo       repository.PagoRepository
	pedidoRepo repository.PedidoRepository
}

func NewPagoService(repo repository.PagoRepository, pedidoRepo repository.PedidoRepository) PagoService {
	return &pagoService{repo: repo, pedidoRepo: pedidoRepo}
}

func (s *pagoService) Registrar(ctx context.Context, pedidoID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Detalle: "el monto debe ser mayor a cero"}
	}
	if _, err := s.pedidoRepo.FindByID(ctx, pedidoID); err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}

	pago := &model.Pago{
		PedidoID:  pedidoID,
		Monto:     req.Monto,
		Metodo:    req.Metodo,
		Nota:      req.Nota,
		ImagenURL: req.ImagenURL,
	}
	if err := s.repo.Create(ctx, pago); err != nil {
		return nil, err
	}
	return toPagoResponse(pago), nil
}

func (s *pagoService) Balance(ctx context.Context, pedidoID uuid.UUID) (*dto.BalanceResponse, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "pedido"}
	}
	pagos, err := s.repo.ListByPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BalanceResponse{
		PedidoID: pedidoID.String(),
		Total:    pedido.Total(),
		Abonado:  decimal.Zero,
		Pagos:    make([]dto.PagoResponse, len(pagos)),
	}
	for i := range pagos {
		resp.Abonado = resp.Abonado.Add(pagos[i].Monto)
		resp.Pagos[i] = *toPagoResponse(&pagos[i])
	}
	resp.Saldo = resp.Total.Sub(resp.Abonado)
	return resp, nil
}

func toPagoResponse(p *model.Pago) *dto.PagoResponse {
	return &dto.PagoResponse{
		ID:        p.ID.String(),
		PedidoID:  p.PedidoID.String(),
		Monto:     p.Monto,
		Metodo:    p.Metodo,
		Nota:      p.Nota,
		ImagenURL: p.ImagenURL,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
