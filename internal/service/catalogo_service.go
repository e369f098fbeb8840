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

// CatalogoService defines the business logic contract for the product catalog.
// Stock is written here (absolute set at create/edit) and by VentaService's
// conditional decrement — nowhere else.
type CatalogoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	repo repository.ProductoRepository
	bus  *events.Bus
}

func NewCatalogoService(repo repository.ProductoRepository, bus *events.Bus) CatalogoService {
	return &catalogoService{repo: repo, bus: bus}
}

func (s *catalogoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:    req.Nombre,
		Precio:    req.Precio,
		Categoria: req.Categoria,
		Marca:     req.Marca,
	}

	if model.EsCategoriaEspecial(req.Categoria) {
		// Special categories are sold by weight/reference: stock is forced
		// to the nil sentinel no matter what the caller sent.
		p.Stock = nil
	} else {
		if req.Stock == nil {
			return nil, errValidacion("stock es requerido para esta categoría")
		}
		if *req.Stock < 0 {
			return nil, errValidacion("stock no puede ser negativo")
		}
		stock := *req.Stock
		p.Stock = &stock
	}

	if req.FechaVencimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, errValidacion("fecha_vencimiento inválida")
		}
		p.FechaVencimiento = &fecha
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.bus.Publish(events.TemaProductos, "creado", p.ID.String())
	return productoToResponse(p), nil
}

func (s *catalogoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("producto")
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *catalogoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoEncontrado("producto")
		}
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, errValidacion("precio no puede ser negativo")
		}
		p.Precio = *req.Precio
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}

	// Re-apply the stock rule after any categoria change.
	if model.EsCategoriaEspecial(p.Categoria) {
		p.Stock = nil
	} else if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, errValidacion("stock no puede ser negativo")
		}
		stock := *req.Stock
		p.Stock = &stock
	} else if p.Stock == nil {
		return nil, errValidacion("stock es requerido para esta categoría")
	}

	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.FechaVencimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, errValidacion("fecha_vencimiento inválida")
		}
		p.FechaVencimiento = &fecha
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.bus.Publish(events.TemaProductos, "actualizado", p.ID.String())
	return productoToResponse(p), nil
}

// Eliminar removes the product outright. Sales referencing it keep their
// snapshot prices; their projections fall back to "Producto no encontrado".
func (s *catalogoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNoEncontrado("producto")
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.TemaProductos, "eliminado", id.String())
	return nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Precio:    p.Precio,
		Categoria: p.Categoria,
		Stock:     p.Stock,
		Marca:     p.Marca,
		Especial:  model.EsCategoriaEspecial(p.Categoria),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.FechaVencimiento != nil {
		fecha := p.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &fecha
	}
	return resp
}
