package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
	"github.com/viktorhino/gestor-cupos-sub001/internal/wa"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	telefono := wa.NormalizarTelefono(req.Telefono)
	if telefono == "" {
		return nil, &ValidationError{Detalle: "telefono invalido: no contiene digitos"}
	}

	cliente := &model.Cliente{
		Empresa:  req.Empresa,
		Contacto: req.Contacto,
		Telefono: telefono,
		Email:    req.Email,
		Notas:    req.Notas,
		Activo:   true,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cliente"}
	}
	return toClienteResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClienteListResponse{
		Data:  make([]dto.ClienteResponse, len(clientes)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range clientes {
		resp.Data[i] = *toClienteResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cliente"}
	}

	if req.Empresa != "" {
		cliente.Empresa = req.Empresa
	}
	if req.Contacto != nil {
		cliente.Contacto = *req.Contacto
	}
	if req.Telefono != "" {
		telefono := wa.NormalizarTelefono(req.Telefono)
		if telefono == "" {
			return nil, &ValidationError{Detalle: "telefono invalido: no contiene digitos"}
		}
		cliente.Telefono = telefono
	}
	if req.Email != nil {
		cliente.Email = req.Email
	}
	if req.Notas != nil {
		cliente.Notas = req.Notas
	}

	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return &NotFoundError{Entidad: "cliente"}
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *clienteService) Reactivar(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "cliente"}
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return nil, err
	}
	cliente.Activo = true
	return toClienteResponse(cliente), nil
}

func toClienteResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:       c.ID.String(),
		Empresa:  c.Empresa,
		Contacto: c.Contacto,
		Telefono: c.Telefono,
		Email:    c.Email,
		Notas:    c.Notas,
		Activo:   c.Activo,
	}
}
