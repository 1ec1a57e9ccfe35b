package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// CatalogoRepository covers both producible catalogs: card references and
// flyer types. They always change together operationally, so one repo
// keeps the wiring small.
type CatalogoRepository interface {
	CreateReferencia(ctx context.Context, ref *model.ReferenciaTarjeta) error
	FindReferenciaByID(ctx context.Context, id uuid.UUID) (*model.ReferenciaTarjeta, error)
	ListReferencias(ctx context.Context) ([]model.ReferenciaTarjeta, error)
	UpdateReferencia(ctx context.Context, ref *model.ReferenciaTarjeta) error
	DesactivarReferencia(ctx context.Context, id uuid.UUID) error

	CreateTipoVolante(ctx context.Context, tv *model.TipoVolante) error
	FindTipoVolanteByID(ctx context.Context, id uuid.UUID) (*model.TipoVolante, error)
	ListTiposVolante(ctx context.Context) ([]model.TipoVolante, error)
	UpdateTipoVolante(ctx context.Context, tv *model.TipoVolante) error
	DesactivarTipoVolante(ctx context.Context, id uuid.UUID) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) CreateReferencia(ctx context.Context, ref *model.ReferenciaTarjeta) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *catalogoRepo) FindReferenciaByID(ctx context.Context, id uuid.UUID) (*model.ReferenciaTarjeta, error) {
	var ref model.ReferenciaTarjeta
	err := r.db.WithContext(ctx).First(&ref, id).Error
	return &ref, err
}

func (r *catalogoRepo) ListReferencias(ctx context.Context) ([]model.ReferenciaTarjeta, error) {
	var refs []model.ReferenciaTarjeta
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&refs).Error
	return refs, err
}

func (r *catalogoRepo) UpdateReferencia(ctx context.Context, ref *model.ReferenciaTarjeta) error {
	return r.db.WithContext(ctx).Save(ref).Error
}

func (r *catalogoRepo) DesactivarReferencia(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ReferenciaTarjeta{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *catalogoRepo) CreateTipoVolante(ctx context.Context, tv *model.TipoVolante) error {
	return r.db.WithContext(ctx).Create(tv).Error
}

func (r *catalogoRepo) FindTipoVolanteByID(ctx context.Context, id uuid.UUID) (*model.TipoVolante, error) {
	var tv model.TipoVolante
	err := r.db.WithContext(ctx).First(&tv, id).Error
	return &tv, err
}

func (r *catalogoRepo) ListTiposVolante(ctx context.Context) ([]model.TipoVolante, error) {
	var tipos []model.TipoVolante
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *catalogoRepo) UpdateTipoVolante(ctx context.Context, tv *model.TipoVolante) error {
	return r.db.WithContext(ctx).Save(tv).Error
}

func (r *catalogoRepo) DesactivarTipoVolante(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TipoVolante{}).
		Where("id = ?", id).Update("activo", false).Error
}
