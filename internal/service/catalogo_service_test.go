package service_test

import (
	"context"
	"testing"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCatalogoSvc() (service.CatalogoService, *stubProductoRepo, *events.Bus) {
	repo := newStubProductoRepo()
	bus := events.NewBus()
	return service.NewCatalogoService(repo, bus), repo, bus
}

func TestCrearProducto_Normal(t *testing.T) {
	svc, repo, _ := buildCatalogoSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:    "Arroz Costeño 1kg",
		Precio:    decimal.NewFromFloat(4.50),
		Categoria: "Abarrotes",
		Stock:     intPtr(24),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Stock)
	assert.Equal(t, 24, *resp.Stock)
	assert.False(t, resp.Especial)

	stored := repo.productos[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored.Stock)
	assert.Equal(t, 24, *stored.Stock)
}

func TestCrearProducto_NormalSinStock(t *testing.T) {
	svc, _, _ := buildCatalogoSvc()

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:    "Leche Gloria",
		Precio:    decimal.NewFromFloat(5.00),
		Categoria: "Abarrotes",
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestCrearProducto_EspecialForzaStockNulo(t *testing.T) {
	svc, repo, _ := buildCatalogoSvc()

	// caller sends a stock value; special category discards it
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:    "Papaya",
		Precio:    decimal.NewFromFloat(6.00),
		Categoria: model.CategoriaFrutasVerduras,
		Stock:     intPtr(99),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Stock)
	assert.True(t, resp.Especial)

	stored := repo.productos[uuid.MustParse(resp.ID)]
	assert.Nil(t, stored.Stock)
}

func TestActualizarProducto_CambioACategoriaEspecial(t *testing.T) {
	svc, repo, _ := buildCatalogoSvc()
	p := seedProducto(repo, "Maíz", "Abarrotes", 3.50, intPtr(12))

	categoria := model.CategoriaAlimentosGranel
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Categoria: &categoria,
	})
	require.NoError(t, err)

	// moving into a special category drops unit tracking
	assert.Nil(t, resp.Stock)
	assert.Nil(t, repo.productos[p.ID].Stock)
}

func TestActualizarProducto_CambioDesdeEspecialRequiereStock(t *testing.T) {
	svc, repo, _ := buildCatalogoSvc()
	p := seedProducto(repo, "Maíz a granel", model.CategoriaAlimentosGranel, 3.50, nil)

	categoria := "Abarrotes"
	// no stock provided for the now unit-tracked product
	_, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Categoria: &categoria,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)

	// providing stock makes it valid
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Categoria: &categoria,
		Stock:     intPtr(30),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Stock)
	assert.Equal(t, 30, *resp.Stock)
}

func TestActualizarProducto_PrecioNegativo(t *testing.T) {
	svc, repo, _ := buildCatalogoSvc()
	p := seedProducto(repo, "Atún", "Abarrotes", 7.00, intPtr(5))

	precio := decimal.NewFromInt(-1)
	_, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Precio: &precio,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestEliminarProducto_PublicaEvento(t *testing.T) {
	svc, repo, bus := buildCatalogoSvc()
	p := seedProducto(repo, "Yogurt", "Abarrotes", 6.50, intPtr(3))

	ch, cancel := bus.Subscribe()
	defer cancel()

	require.NoError(t, svc.Eliminar(context.Background(), p.ID))
	assert.NotContains(t, repo.productos, p.ID)

	e := <-ch
	assert.Equal(t, events.TemaProductos, e.Tema)
	assert.Equal(t, "eliminado", e.Accion)
	assert.Equal(t, p.ID.String(), e.ID)
}

func TestObtenerProducto_NoEncontrado(t *testing.T) {
	svc, _, _ := buildCatalogoSvc()
	_, err := svc.ObtenerPorID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}
