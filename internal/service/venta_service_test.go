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

func buildVentaSvc() (service.VentaService, *stubVentaRepo, *stubProductoRepo, *stubClienteRepo, *stubMovimientoStockRepo) {
	ventaRepo := newStubVentaRepo()
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	movRepo := &stubMovimientoStockRepo{}
	svc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movRepo, events.NewBus(), nil)
	return svc, ventaRepo, productoRepo, clienteRepo, movRepo
}

func TestRegistrarVenta_DescuentaStock(t *testing.T) {
	svc, ventaRepo, productoRepo, _, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Arroz Costeño 1kg", "Abarrotes", 4.50, intPtr(10))

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		EstadoPago: model.EstadoPagado,
	})
	require.NoError(t, err)

	assert.Equal(t, "13.5", resp.Total.String())
	assert.Equal(t, model.EstadoPagado, resp.EstadoPago)
	assert.True(t, resp.MontoPendiente.IsZero())
	assert.Equal(t, service.NombreConsumidorFinal, resp.Cliente)

	// stock 10 - 3 = 7
	assert.Equal(t, 7, *productoRepo.productos[p.ID].Stock)

	// sale stored with snapshot price
	stored, err := ventaRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "4.5", stored.Items[0].PrecioUnitario.String())

	// one movement, negative, referencing the sale
	require.Len(t, movRepo.movimientos, 1)
	assert.Equal(t, -3, movRepo.movimientos[0].Cantidad)
	assert.Equal(t, "venta", movRepo.movimientos[0].Tipo)
	require.NotNil(t, movRepo.movimientos[0].ReferenciaID)
	assert.Equal(t, resp.ID, movRepo.movimientos[0].ReferenciaID.String())
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, ventaRepo, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Leche Gloria", "Abarrotes", 5.00, intPtr(2))

	_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
		EstadoPago: model.EstadoPagado,
	})
	require.Error(t, err)
	assert.True(t, service.EsStockInsuficiente(err))

	// nothing mutated: stock intact, no sale stored
	assert.Equal(t, 2, *productoRepo.productos[p.ID].Stock)
	assert.Empty(t, ventaRepo.ventas)
}

func TestRegistrarVenta_CategoriaEspecialSinDescuento(t *testing.T) {
	svc, _, productoRepo, _, movRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Papaya", model.CategoriaFrutasVerduras, 6.00, nil)

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 4}},
		EstadoPago: model.EstadoPagado,
	})
	require.NoError(t, err)
	assert.Equal(t, "24", resp.Total.String())

	// no unit tracking: stock stays nil, no movement recorded
	assert.Nil(t, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, movRepo.movimientos)
}

func TestRegistrarVenta_MixtaNormalYEspecial(t *testing.T) {
	svc, _, productoRepo, _, movRepo := buildVentaSvc()
	normal := seedProducto(productoRepo, "Atún Florida", "Abarrotes", 7.00, intPtr(6))
	especial := seedProducto(productoRepo, "Maíz a granel", model.CategoriaAlimentosGranel, 3.50, nil)

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: normal.ID.String(), Cantidad: 2},
			{ProductoID: especial.ID.String(), Cantidad: 2},
		},
		EstadoPago: model.EstadoPagado,
	})
	require.NoError(t, err)

	// 7×2 + 3.5×2 = 21
	assert.Equal(t, "21", resp.Total.String())
	assert.Equal(t, 4, *productoRepo.productos[normal.ID].Stock)
	assert.Len(t, movRepo.movimientos, 1)
}

func TestRegistrarVenta_CreditoAnonimoRechazado(t *testing.T) {
	svc, _, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Aceite Primor", "Abarrotes", 9.00, intPtr(5))

	_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		EstadoPago: model.EstadoPendiente,
	})
	assert.ErrorIs(t, err, service.ErrCreditoAnonimo)
}

func TestRegistrarVenta_PendienteConCliente(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Azúcar rubia", "Abarrotes", 4.00, intPtr(8))
	cli := seedCliente(clienteRepo, "Doña Rosa")
	clienteID := cli.ID.String()

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		EstadoPago: model.EstadoPendiente,
	})
	require.NoError(t, err)
	assert.Equal(t, "Doña Rosa", resp.Cliente)
	assert.Equal(t, resp.Total.String(), resp.MontoPendiente.String())
}

func TestRegistrarVenta_ParcialConAdelanto(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Detergente Bolívar", "Limpieza", 10.00, intPtr(5))
	cli := seedCliente(clienteRepo, "Don Pepe")
	clienteID := cli.ID.String()

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		EstadoPago: model.EstadoParcial,
		Adelanto:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	// total 30, adelanto 10 → pendiente 20
	assert.Equal(t, "20", resp.MontoPendiente.String())
	assert.Equal(t, model.EstadoParcial, resp.EstadoPago)
}

func TestRegistrarVenta_ParcialAdelantoInvalido(t *testing.T) {
	svc, _, productoRepo, clienteRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Jabón Bolívar", "Limpieza", 5.00, intPtr(5))
	cli := seedCliente(clienteRepo, "Don Pepe")
	clienteID := cli.ID.String()

	// adelanto 0
	_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		EstadoPago: model.EstadoParcial,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)

	// adelanto >= total
	_, err = svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		EstadoPago: model.EstadoParcial,
		Adelanto:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestRegistrarVenta_SinItems(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()
	_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		EstadoPago: model.EstadoPagado,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestEliminarVenta_NoRestauraStock(t *testing.T) {
	svc, ventaRepo, productoRepo, _, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Galletas Soda", "Abarrotes", 2.00, intPtr(10))

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 4}},
		EstadoPago: model.EstadoPagado,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, *productoRepo.productos[p.ID].Stock)

	err = svc.EliminarVenta(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	// sale gone, sold units stay sold
	assert.Empty(t, ventaRepo.ventas)
	assert.Equal(t, 6, *productoRepo.productos[p.ID].Stock)
}

func TestEliminarVenta_NoEncontrada(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc()
	err := svc.EliminarVenta(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestListarVentas_ProductoEliminadoUsaFallback(t *testing.T) {
	ventaRepo := newStubVentaRepo()
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	movRepo := &stubMovimientoStockRepo{}

	// seed a sale whose product no longer exists in the catalog
	desaparecido := uuid.New()
	venta := &model.Venta{
		ID:         uuid.New(),
		Total:      decimal.NewFromInt(10),
		EstadoPago: model.EstadoPagado,
		Items: []model.VentaItem{{
			ID:             uuid.New(),
			ProductoID:     desaparecido,
			Cantidad:       1,
			PrecioUnitario: decimal.NewFromInt(10),
			Subtotal:       decimal.NewFromInt(10),
		}},
	}
	ventaRepo.ventas[venta.ID] = venta

	svc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movRepo, nil, nil)

	resp, err := svc.ListarVentas(context.Background(), dto.VentaFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	require.Len(t, resp.Data[0].Items, 1)
	assert.Equal(t, service.NombreProductoEliminado, resp.Data[0].Items[0].Producto)
	assert.Equal(t, service.NombreConsumidorFinal, resp.Data[0].Cliente)
}
