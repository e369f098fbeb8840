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

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
	bus  *events.Bus
}

func NewProveedorService(repo repository.ProveedorRepository, bus *events.Bus) ProveedorService {
	return &proveedorService{repo: repo, bus: bus}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		Nombre:   req.Nombre,
		RUC:      req.RUC,
		Telefono: req.Telefono,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TemaProveedores, "creado", p.ID.String())
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("proveedor")
		}
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		resp = append(resp, *proveedorToResponse(&proveedores[i]))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("proveedor")
		}
		return nil, err
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.RUC != nil {
		p.RUC = req.RUC
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TemaProveedores, "actualizado", p.ID.String())
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNoEncontrado("proveedor")
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.TemaProveedores, "eliminado", id.String())
	return nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		RUC:           p.RUC,
		Telefono:      p.Telefono,
		FechaCreacion: p.CreatedAt.Format(time.RFC3339),
	}
}
