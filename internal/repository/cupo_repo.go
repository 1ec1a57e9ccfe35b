package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// CupoRepository is the data access contract for production slots and their
// placements. Placement writes happen inside the allocation transaction so
// capacity checks and inserts commit atomically.
type CupoRepository interface {
	Create(ctx context.Context, c *model.Cupo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cupo, error)
	// FindByIDTx re-reads the cupo with its placements inside the allocation
	// tx, so the capacity check runs against committed content.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cupo, error)
	ListByRango(ctx context.Context, desde, hasta time.Time, cerrado string) ([]model.Cupo, error)
	Update(ctx context.Context, c *model.Cupo) error

	CreateAsignacionTx(tx *gorm.DB, a *model.CupoAsignacion) error
	// DeleteAsignacionTx removes a placement; returns the number of rows
	// removed so callers can detect the no-op case.
	DeleteAsignacionTx(tx *gorm.DB, cupoID, pedidoItemID uuid.UUID) (int64, error)
	FindAsignacionByItem(ctx context.Context, pedidoItemID uuid.UUID) (*model.CupoAsignacion, error)

	DB() *gorm.DB
}

type cupoRepo struct{ db *gorm.DB }

func NewCupoRepository(db *gorm.DB) CupoRepository { return &cupoRepo{db: db} }

func (r *cupoRepo) Create(ctx context.Context, c *model.Cupo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cupoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cupo, error) {
	var c model.Cupo
	err := r.db.WithContext(ctx).
		Preload("Asignaciones").
		Preload("Asignaciones.PedidoItem").
		Preload("Asignaciones.PedidoItem.Pedido").
		First(&c, id).Error
	return &c, err
}

func (r *cupoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cupo, error) {
	var c model.Cupo
	err := tx.Preload("Asignaciones").First(&c, id).Error
	return &c, err
}

func (r *cupoRepo) ListByRango(ctx context.Context, desde, hasta time.Time, cerrado string) ([]model.Cupo, error) {
	var cupos []model.Cupo
	q := r.db.WithContext(ctx).Preload("Asignaciones")

	if !desde.IsZero() {
		q = q.Where("fecha >= ?", desde)
	}
	if !hasta.IsZero() {
		q = q.Where("fecha <= ?", hasta)
	}
	switch cerrado {
	case "true":
		q = q.Where("cerrado = true")
	case "false":
		q = q.Where("cerrado = false")
	}

	err := q.Order("fecha ASC").Find(&cupos).Error
	return cupos, err
}

func (r *cupoRepo) Update(ctx context.Context, c *model.Cupo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cupoRepo) CreateAsignacionTx(tx *gorm.DB, a *model.CupoAsignacion) error {
	return tx.Create(a).Error
}

func (r *cupoRepo) DeleteAsignacionTx(tx *gorm.DB, cupoID, pedidoItemID uuid.UUID) (int64, error) {
	result := tx.Where("cupo_id = ? AND pedido_item_id = ?", cupoID, pedidoItemID).
		Delete(&model.CupoAsignacion{})
	return result.RowsAffected, result.Error
}

func (r *cupoRepo) FindAsignacionByItem(ctx context.Context, pedidoItemID uuid.UUID) (*model.CupoAsignacion, error) {
	var a model.CupoAsignacion
	err := r.db.WithContext(ctx).Where("pedido_item_id = ?", pedidoItemID).First(&a).Error
	return &a, err
}

func (r *cupoRepo) DB() *gorm.DB { return r.db }
