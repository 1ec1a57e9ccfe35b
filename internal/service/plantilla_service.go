package service

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
)

type PlantillaService interface {
	Crear(ctx context.Context, req dto.CrearPlantillaRequest) (*dto.PlantillaResponse, error)
	Listar(ctx context.Context) ([]dto.PlantillaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlantillaRequest) (*dto.PlantillaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type plantillaService struct {
	repo repository.PlantillaRepository
}

func NewPlantillaService(repo repository.PlantillaRepository) PlantillaService {
	return &plantillaService{repo: repo}
}

func (s *plantillaService) Crear(ctx context.Context, req dto.CrearPlantillaRequest) (*dto.PlantillaResponse, error) {
	estado, err := model.ParseEstado(req.Estado)
	if err != nil {
		return nil, &ValidationError{Detalle: err.Error()}
	}
	if err := validarCuerpo(req.Cuerpo); err != nil {
		return nil, err
	}
	// One active template per (estado, tipo): an existing pair must be edited,
	// not duplicated. The unique index backs this up at the DB level.
	if _, err := s.repo.FindByEstadoTipo(ctx, estado, req.TipoPedido); err == nil {
		return nil, &ValidationError{Detalle: fmt.Sprintf(
			"ya existe una plantilla activa para %s/%s", req.Estado, req.TipoPedido)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plantilla := &model.PlantillaMensaje{
		Estado:     estado,
		TipoPedido: req.TipoPedido,
		Cuerpo:     req.Cuerpo,
		Activo:     true,
	}
	if err := s.repo.Create(ctx, plantilla); err != nil {
		return nil, err
	}
	return toPlantillaResponse(plantilla), nil
}

func (s *plantillaService) Listar(ctx context.Context) ([]dto.PlantillaResponse, error) {
	plantillas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PlantillaResponse, len(plantillas))
	for i := range plantillas {
		resp[i] = *toPlantillaResponse(&plantillas[i])
	}
	return resp, nil
}

func (s *plantillaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlantillaRequest) (*dto.PlantillaResponse, error) {
	plantilla, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "plantilla"}
	}
	if err := validarCuerpo(req.Cuerpo); err != nil {
		return nil, err
	}
	plantilla.Cuerpo = req.Cuerpo
	if err := s.repo.Update(ctx, plantilla); err != nil {
		return nil, err
	}
	return toPlantillaResponse(plantilla), nil
}

func (s *plantillaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return &NotFoundError{Entidad: "plantilla"}
	}
	return s.repo.SoftDelete(ctx, id)
}

// validarCuerpo rejects bodies that would fail at render time, so a broken
// template surfaces when it is saved and not when a transition fires.
func validarCuerpo(cuerpo string) error {
	if _, err := template.New("plantilla").Parse(cuerpo); err != nil {
		return &ValidationError{Detalle: fmt.Sprintf("cuerpo de plantilla invalido: %v", err)}
	}
	return nil
}

func toPlantillaResponse(p *model.PlantillaMensaje) *dto.PlantillaResponse {
	return &dto.PlantillaResponse{
		ID:         p.ID.String(),
		Estado:     string(p.Estado),
		TipoPedido: p.TipoPedido,
		Cuerpo:     p.Cuerpo,
		Activo:     p.Activo,
	}
}
