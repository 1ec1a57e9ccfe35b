package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// PlantillaRepository is the data access contract for message templates.
type PlantillaRepository interface {
	Create(ctx context.Context, p *model.PlantillaMensaje) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PlantillaMensaje, error)
	// FindByEstadoTipo resolves the template for a (trigger status, order
	// type) pair. gorm.ErrRecordNotFound means "no template" and is a valid
	// outcome, not a failure.
	FindByEstadoTipo(ctx context.Context, estado model.EstadoPedido, tipo string) (*model.PlantillaMensaje, error)
	List(ctx context.Context) ([]model.PlantillaMensaje, error)
	Update(ctx context.Context, p *model.PlantillaMensaje) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type plantillaRepo struct{ db *gorm.DB }

func NewPlantillaRepository(db *gorm.DB) PlantillaRepository { return &plantillaRepo{db: db} }

func (r *plantillaRepo) Create(ctx context.Context, p *model.PlantillaMensaje) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *plantillaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PlantillaMensaje, error) {
	var p model.PlantillaMensaje
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *plantillaRepo) FindByEstadoTipo(ctx context.Context, estado model.EstadoPedido, tipo string) (*model.PlantillaMensaje, error) {
	var p model.PlantillaMensaje
	err := r.db.WithContext(ctx).
		Where("estado = ? AND tipo_pedido = ? AND activo = true", estado, tipo).
		First(&p).Error
	return &p, err
}

func (r *plantillaRepo) List(ctx context.Context) ([]model.PlantillaMensaje, error) {
	var plantillas []model.PlantillaMensaje
	err := r.db.WithContext(ctx).Order("tipo_pedido, estado").Find(&plantillas).Error
	return plantillas, err
}

func (r *plantillaRepo) Update(ctx context.Context, p *model.PlantillaMensaje) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *plantillaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PlantillaMensaje{}).
		Where("id = ?", id).Update("activo", false).Error
}
