package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
)

// CatalogoService administers the two producible catalogs: card references
// and flyer types. Catalog entries are never hard-deleted, existing pedido
// items keep pointing at deactivated entries.
type CatalogoService interface {
	CrearReferencia(ctx context.Context, req dto.CrearReferenciaRequest) (*dto.CatalogoResponse, error)
	ListarReferencias(ctx context.Context) ([]dto.CatalogoResponse, error)
	ActualizarReferencia(ctx context.Context, id uuid.UUID, req dto.ActualizarCatalogoRequest) (*dto.CatalogoResponse, error)
	DesactivarReferencia(ctx context.Context, id uuid.UUID) error

	CrearTipoVolante(ctx context.Context, req dto.CrearTipoVolanteRequest) (*dto.CatalogoResponse, error)
	ListarTiposVolante(ctx context.Context) ([]dto.CatalogoResponse, error)
	ActualizarTipoVolante(ctx context.Context, id uuid.UUID, req dto.ActualizarCatalogoRequest) (*dto.CatalogoResponse, error)
	DesactivarTipoVolante(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) CrearReferencia(ctx context.Context, req dto.CrearReferenciaRequest) (*dto.CatalogoResponse, error) {
	ref := &model.ReferenciaTarjeta{
		Nombre:           req.Nombre,
		Grupo:            req.Grupo,
		PrecioBase:       req.PrecioBase,
		OcupacionDefecto: req.OcupacionDefecto,
		Activo:           true,
	}
	if err := s.repo.CreateReferencia(ctx, ref); err != nil {
		return nil, err
	}
	return referenciaResponse(ref), nil
}

func (s *catalogoService) ListarReferencias(ctx context.Context) ([]dto.CatalogoResponse, error) {
	refs, err := s.repo.ListReferencias(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CatalogoResponse, len(refs))
	for i := range refs {
		resp[i] = *referenciaResponse(&refs[i])
	}
	return resp, nil
}

func (s *catalogoService) ActualizarReferencia(ctx context.Context, id uuid.UUID, req dto.ActualizarCatalogoRequest) (*dto.CatalogoResponse, error) {
	ref, err := s.repo.FindReferenciaByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "referencia de tarjeta"}
	}
	if req.Nombre != "" {
		ref.Nombre = req.Nombre
	}
	if req.PrecioBase != nil {
		ref.PrecioBase = *req.PrecioBase
	}
	if req.OcupacionDefecto > 0 {
		ref.OcupacionDefecto = req.OcupacionDefecto
	}
	if err := s.repo.UpdateReferencia(ctx, ref); err != nil {
		return nil, err
	}
	return referenciaResponse(ref), nil
}

func (s *catalogoService) DesactivarReferencia(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindReferenciaByID(ctx, id); err != nil {
		return &NotFoundError{Entidad: "referencia de tarjeta"}
	}
	return s.repo.DesactivarReferencia(ctx, id)
}

func (s *catalogoService) CrearTipoVolante(ctx context.Context, req dto.CrearTipoVolanteRequest) (*dto.CatalogoResponse, error) {
	tv := &model.TipoVolante{
		Nombre:           req.Nombre,
		Grupo:            req.Grupo,
		PrecioBase:       req.PrecioBase,
		OcupacionDefecto: req.OcupacionDefecto,
		Activo:           true,
	}
	if err := s.repo.CreateTipoVolante(ctx, tv); err != nil {
		return nil, err
	}
	return tipoVolanteResponse(tv), nil
}

func (s *catalogoService) ListarTiposVolante(ctx context.Context) ([]dto.CatalogoResponse, error) {
	tipos, err := s.repo.ListTiposVolante(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CatalogoResponse, len(tipos))
	for i := range tipos {
		resp[i] = *tipoVolanteResponse(&tipos[i])
	}
	return resp, nil
}

func (s *catalogoService) ActualizarTipoVolante(ctx context.Context, id uuid.UUID, req dto.ActualizarCatalogoRequest) (*dto.CatalogoResponse, error) {
	tv, err := s.repo.FindTipoVolanteByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "tipo de volante"}
	}
	if req.Nombre != "" {
		tv.Nombre = req.Nombre
	}
	if req.PrecioBase != nil {
		tv.PrecioBase = *req.PrecioBase
	}
	if req.OcupacionDefecto > 0 {
		tv.OcupacionDefecto = req.OcupacionDefecto
	}
	if err := s.repo.UpdateTipoVolante(ctx, tv); err != nil {
		return nil, err
	}
	return tipoVolanteResponse(tv), nil
}

func (s *catalogoService) DesactivarTipoVolante(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindTipoVolanteByID(ctx, id); err != nil {
		return &NotFoundError{Entidad: "tipo de volante"}
	}
	return s.repo.DesactivarTipoVolante(ctx, id)
}

func referenciaResponse(ref *model.ReferenciaTarjeta) *dto.CatalogoResponse {
	return &dto.CatalogoResponse{
		ID:               ref.ID.String(),
		Nombre:           ref.Nombre,
		Grupo:            ref.Grupo,
		PrecioBase:       ref.PrecioBase,
		OcupacionDefecto: ref.OcupacionDefecto,
		Activo:           ref.Activo,
	}
}

func tipoVolanteResponse(tv *model.TipoVolante) *dto.CatalogoResponse {
	return &dto.CatalogoResponse{
		ID:               tv.ID.String(),
		Nombre:           tv.Nombre,
		Grupo:            tv.Grupo,
		PrecioBase:       tv.PrecioBase,
		OcupacionDefecto: tv.OcupacionDefecto,
		Activo:           tv.Activo,
	}
}
