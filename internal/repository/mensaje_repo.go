package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// MensajeRepository is the data access contract for notification messages.
// SupersedePendientesTx + CreateTx run inside one transaction so the
// "at most one pending message per pedido" invariant holds even under
// concurrent status changes.
type MensajeRepository interface {
	CreateTx(tx *gorm.DB, m *model.MensajeWhatsapp) error
	// SupersedePendientesTx marks every pending message of the pedido as
	// replaced. Superseded messages stay readable in history.
	SupersedePendientesTx(tx *gorm.DB, pedidoID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MensajeWhatsapp, error)
	FindPendienteByPedido(ctx context.Context, pedidoID uuid.UUID) (*model.MensajeWhatsapp, error)
	ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.MensajeWhatsapp, error)
	// MarcarCopiado acknowledges a message and stamps EnviadoAt on the first
	// acknowledgement. Idempotent: a repeated call matches no rows and keeps
	// the original timestamp.
	MarcarCopiado(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type mensajeRepo struct{ db *gorm.DB }

func NewMensajeRepository(db *gorm.DB) MensajeRepository { return &mensajeRepo{db: db} }

func (r *mensajeRepo) CreateTx(tx *gorm.DB, m *model.MensajeWhatsapp) error {
	return tx.Create(m).Error
}

func (r *mensajeRepo) SupersedePendientesTx(tx *gorm.DB, pedidoID uuid.UUID) error {
	return tx.Model(&model.MensajeWhatsapp{}).
		Where("pedido_id = ? AND copiado = false AND reemplazado = false", pedidoID).
		Update("reemplazado", true).Error
}

func (r *mensajeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MensajeWhatsapp, error) {
	var m model.MensajeWhatsapp
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *mensajeRepo) FindPendienteByPedido(ctx context.Context, pedidoID uuid.UUID) (*model.MensajeWhatsapp, error) {
	var m model.MensajeWhatsapp
	err := r.db.WithContext(ctx).
		Where("pedido_id = ? AND copiado = false AND reemplazado = false", pedidoID).
		Order("created_at DESC").First(&m).Error
	return &m, err
}

func (r *mensajeRepo) ListByPedido(ctx context.Context, pedidoID uuid.UUID) ([]model.MensajeWhatsapp, error) {
	var mensajes []model.MensajeWhatsapp
	err := r.db.WithContext(ctx).Where("pedido_id = ?", pedidoID).
		Order("created_at DESC").Find(&mensajes).Error
	return mensajes, err
}

func (r *mensajeRepo) MarcarCopiado(ctx context.Context, id uuid.UUID) error {
	// Only the first acknowledgement writes enviado_at; repeats match no rows.
	return r.db.WithContext(ctx).Model(&model.MensajeWhatsapp{}).
		Where("id = ? AND copiado = ?", id, false).
		Updates(map[string]interface{}{"copiado": true, "enviado_at": time.Now()}).Error
}

func (r *mensajeRepo) DB() *gorm.DB { return r.db }
