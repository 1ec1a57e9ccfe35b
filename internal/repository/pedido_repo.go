package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// PedidoRepository is the data access contract for production orders and
// their items. Item rows are only ever written through their owning pedido.
type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	Update(ctx context.Context, p *model.Pedido) error
	Delete(ctx context.Context, id uuid.UUID) error

	// NextConsecutivo reserves the next human-readable order code from the
	// pedidos_consecutivo_seq sequence. Called inside the creation tx.
	NextConsecutivo(ctx context.Context, tx *gorm.DB) (int, error)

	// UpdateEstadoTx writes the new status inside the transition transaction.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error

	// Items
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.PedidoItem, error)
	CreateItem(ctx context.Context, item *model.PedidoItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Items").
		Preload("Items.Referencia").
		Preload("Items.TipoVolante").
		Preload("Items.Terminaciones").
		Preload("Pagos").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Desde != "" {
		if desde, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("fecha_recepcion >= ?", desde)
		}
	}
	if filter.Hasta != "" {
		if hasta, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("fecha_recepcion < ?", hasta.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Cliente").Preload("Items").Preload("Items.Terminaciones").Preload("Pagos").
		Order("consecutivo DESC").Limit(filter.Limit).Offset(offset).Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pedidoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Pedido{}, id).Error
}

func (r *pedidoRepo) NextConsecutivo(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		tx = r.db
	}
	var n int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_consecutivo_seq')").Scan(&n).Error
	return n, err
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.PedidoItem, error) {
	var item model.PedidoItem
	err := r.db.WithContext(ctx).
		Preload("Referencia").
		Preload("TipoVolante").
		Preload("Terminaciones").
		First(&item, itemID).Error
	return &item, err
}

func (r *pedidoRepo) CreateItem(ctx context.Context, item *model.PedidoItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *pedidoRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PedidoItem{}, itemID).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
