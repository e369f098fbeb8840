package service_test

import (
	"context"
	"testing"

	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDeudaSvc() (service.DeudaService, *stubVentaRepo, *stubClienteRepo) {
	ventaRepo := newStubVentaRepo()
	clienteRepo := newStubClienteRepo()
	// nil redis: the aggregate is computed directly on every read
	svc := service.NewDeudaService(ventaRepo, clienteRepo, nil, events.NewBus(), nil)
	return svc, ventaRepo, clienteRepo
}

func seedVentaConDeuda(ventaRepo *stubVentaRepo, clienteID uuid.UUID, total, pendiente float64, estado string) *model.Venta {
	v := &model.Venta{
		ID:             uuid.New(),
		ClienteID:      &clienteID,
		Total:          decimal.NewFromFloat(total),
		EstadoPago:     estado,
		MontoPendiente: decimal.NewFromFloat(pendiente),
	}
	ventaRepo.ventas[v.ID] = v
	return v
}

func TestPagarDeuda_PagoParcial(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Doña Rosa")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 50, 50, model.EstadoPendiente)

	resp, err := svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(20))
	require.NoError(t, err)

	assert.Equal(t, "30", resp.MontoPendiente.String())
	assert.Equal(t, model.EstadoParcial, resp.EstadoPago)
	assert.True(t, resp.Excedente.IsZero())

	// pendiente → parcial on first partial payment
	stored, _ := ventaRepo.FindByID(context.Background(), v.ID)
	assert.Equal(t, model.EstadoParcial, stored.EstadoPago)
	assert.Equal(t, "30", stored.MontoPendiente.String())
}

func TestPagarDeuda_PagoExacto(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Don Pepe")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 50, 30, model.EstadoParcial)

	resp, err := svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(30))
	require.NoError(t, err)

	assert.True(t, resp.MontoPendiente.IsZero())
	assert.Equal(t, model.EstadoPagado, resp.EstadoPago)
	assert.True(t, resp.Excedente.IsZero())
}

func TestPagarDeuda_ExcedenteSeDescartaYReporta(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Doña Rosa")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 50, 25, model.EstadoParcial)

	resp, err := svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(40))
	require.NoError(t, err)

	// balance clamps at zero; the 15 above is reported, never stored
	assert.True(t, resp.MontoPendiente.IsZero())
	assert.Equal(t, model.EstadoPagado, resp.EstadoPago)
	assert.Equal(t, "15", resp.Excedente.String())

	stored, _ := ventaRepo.FindByID(context.Background(), v.ID)
	assert.True(t, stored.MontoPendiente.IsZero())
}

func TestPagarDeuda_VentaYaPagada(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Don Pepe")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 50, 0, model.EstadoPagado)

	_, err := svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, service.ErrVentaPagada)
}

func TestPagarDeuda_MontoInvalido(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Doña Rosa")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 50, 50, model.EstadoPendiente)

	_, err := svc.PagarDeuda(context.Background(), v.ID, decimal.Zero)
	assert.ErrorIs(t, err, service.ErrValidacion)

	_, err = svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestPagarDeuda_VentaNoEncontrada(t *testing.T) {
	svc, _, _ := buildDeudaSvc()
	_, err := svc.PagarDeuda(context.Background(), uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestListarClientesConDeudas_Agregacion(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	rosa := seedCliente(clienteRepo, "Doña Rosa")
	pepe := seedCliente(clienteRepo, "Don Pepe")

	seedVentaConDeuda(ventaRepo, rosa.ID, 50, 50, model.EstadoPendiente)
	seedVentaConDeuda(ventaRepo, rosa.ID, 30, 10, model.EstadoParcial)
	seedVentaConDeuda(ventaRepo, pepe.ID, 20, 20, model.EstadoPendiente)
	// paid sales never count
	seedVentaConDeuda(ventaRepo, pepe.ID, 99, 0, model.EstadoPagado)

	deudas, err := svc.ListarClientesConDeudas(context.Background())
	require.NoError(t, err)
	require.Len(t, deudas, 2)

	porCliente := make(map[string]string)
	ventasPorCliente := make(map[string]int)
	for _, d := range deudas {
		porCliente[d.Nombre] = d.TotalDeuda.String()
		ventasPorCliente[d.Nombre] = d.VentasPendientes
	}
	assert.Equal(t, "60", porCliente["Doña Rosa"])
	assert.Equal(t, 2, ventasPorCliente["Doña Rosa"])
	assert.Equal(t, "20", porCliente["Don Pepe"])
	assert.Equal(t, 1, ventasPorCliente["Don Pepe"])
}

func TestObtenerVentasCliente(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	rosa := seedCliente(clienteRepo, "Doña Rosa")
	pepe := seedCliente(clienteRepo, "Don Pepe")

	seedVentaConDeuda(ventaRepo, rosa.ID, 50, 50, model.EstadoPendiente)
	seedVentaConDeuda(ventaRepo, rosa.ID, 40, 0, model.EstadoPagado)
	seedVentaConDeuda(ventaRepo, pepe.ID, 20, 20, model.EstadoPendiente)

	ventas, err := svc.ObtenerVentasCliente(context.Background(), rosa.ID)
	require.NoError(t, err)
	require.Len(t, ventas, 1)
	assert.Equal(t, "Doña Rosa", ventas[0].Cliente)
	assert.Equal(t, "50", ventas[0].MontoPendiente.String())
}

func TestObtenerVentasCliente_NoEncontrado(t *testing.T) {
	svc, _, _ := buildDeudaSvc()
	_, err := svc.ObtenerVentasCliente(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestCicloCompleto_PendienteParcialPagado(t *testing.T) {
	svc, ventaRepo, clienteRepo := buildDeudaSvc()
	cli := seedCliente(clienteRepo, "Doña Rosa")
	v := seedVentaConDeuda(ventaRepo, cli.ID, 100, 100, model.EstadoPendiente)

	// first payment: pendiente → parcial
	resp, err := svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, model.EstadoParcial, resp.EstadoPago)
	assert.Equal(t, "40", resp.MontoPendiente.String())

	// second payment settles it: parcial → pagado
	resp, err = svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPagado, resp.EstadoPago)

	// pagado is terminal
	_, err = svc.PagarDeuda(context.Background(), v.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, service.ErrVentaPagada)
}
