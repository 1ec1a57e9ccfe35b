package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// PagoRepository is the data access contract for payment records.
// Payments are immutable — there is no Update or Delete.
type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Where("pedido_id = ?", pedidoID).
		Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}
