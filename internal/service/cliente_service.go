package service

import (
	"context"
	"errors"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
	bus  *events.Bus
}

func NewClienteService(repo repository.ClienteRepository, bus *events.Bus) ClienteService {
	return &clienteService{repo: repo, bus: bus}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:   req.Nombre,
		Correo:   req.Correo,
		Telefono: req.Telefono,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TemaClientes, "creado", c.ID.String())
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("cliente")
		}
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		resp = append(resp, *clienteToResponse(&clientes[i]))
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("cliente")
		}
		return nil, err
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Correo != nil {
		c.Correo = req.Correo
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TemaClientes, "actualizado", c.ID.String())
	return clienteToResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNoEncontrado("cliente")
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.TemaClientes, "eliminado", id.String())
	return nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:            c.ID.String(),
		Nombre:        c.Nombre,
		Correo:        c.Correo,
		Telefono:      c.Telefono,
		FechaCreacion: c.CreatedAt.Format(time.RFC3339),
	}
}
