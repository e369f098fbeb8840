package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/repository"
	"github.com/Crsto22/Bodega-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeudaService is the debt ledger: the per-customer aggregation of unpaid
// sales and the settlement operation that moves a sale toward pagado.
type DeudaService interface {
	ListarClientesConDeudas(ctx context.Context) ([]dto.ClienteDeudaResponse, error)
	ObtenerVentasCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VentaResponse, error)
	PagarDeuda(ctx context.Context, ventaID uuid.UUID, monto decimal.Decimal) (*dto.PagarDeudaResponse, error)
}

type deudaService struct {
	ventaRepo   repository.VentaRepository
	clienteRepo repository.ClienteRepository
	rdb         *redis.Client
	bus         *events.Bus
	dispatcher  *worker.Dispatcher
}

func NewDeudaService(
	ventaRepo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	rdb *redis.Client,
	bus *events.Bus,
	dispatcher *worker.Dispatcher,
) DeudaService {
	return &deudaService{
		ventaRepo:   ventaRepo,
		clienteRepo: clienteRepo,
		rdb:         rdb,
		bus:         bus,
		dispatcher:  dispatcher,
	}
}

// ListarClientesConDeudas serves the aggregate from the Redis cache kept warm
// by the refresh worker; on a miss it aggregates directly and repopulates.
func (s *deudaService) ListarClientesConDeudas(ctx context.Context) ([]dto.ClienteDeudaResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, worker.DeudasCacheKey).Bytes(); err == nil {
			var deudas []dto.ClienteDeudaResponse
			if jsonErr := json.Unmarshal(cached, &deudas); jsonErr == nil {
				return deudas, nil
			}
		}
	}

	deudas, err := worker.ComputarDeudas(ctx, s.ventaRepo, s.clienteRepo)
	if err != nil {
		return nil, err
	}

	// Repopulate — best effort, ignore errors.
	if s.rdb != nil {
		if data, jsonErr := json.Marshal(deudas); jsonErr == nil {
			_ = s.rdb.Set(ctx, worker.DeudasCacheKey, data, worker.DeudasCacheTTL).Err()
		}
	}
	return deudas, nil
}

// ObtenerVentasCliente returns one customer's pendiente/parcial sales with
// product names resolved, for the per-customer statement view.
func (s *deudaService) ObtenerVentasCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VentaResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, errNoEncontrado("cliente " + clienteID.String())
	}

	ventas, err := s.ventaRepo.ListPendientesPorCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		v := &ventas[i]
		items := make([]dto.ItemVentaResponse, 0, len(v.Items))
		for j := range v.Items {
			item := &v.Items[j]
			nombre := NombreProductoEliminado
			if item.Producto != nil {
				nombre = item.Producto.Nombre
			}
			items = append(items, dto.ItemVentaResponse{
				ProductoID:     item.ProductoID.String(),
				Producto:       nombre,
				Cantidad:       item.Cantidad,
				PrecioUnitario: item.PrecioUnitario,
				Subtotal:       item.Subtotal,
			})
		}
		cid := clienteID.String()
		resp = append(resp, dto.VentaResponse{
			ID:             v.ID.String(),
			ClienteID:      &cid,
			Cliente:        cliente.Nombre,
			Items:          items,
			Total:          v.Total,
			EstadoPago:     v.EstadoPago,
			MontoPendiente: v.MontoPendiente,
			Fecha:          v.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// PagarDeuda applies a payment to a sale's outstanding balance:
//
//	nuevoPendiente = max(0, pendiente − monto)
//
// The state moves to pagado exactly when the balance reaches zero, otherwise
// to parcial (a pendiente sale becomes parcial on its first partial payment).
// Payments only ever decrease the balance; pagado is terminal. Over-payment
// clamps at zero — the discarded excess is reported back, never stored.
func (s *deudaService) PagarDeuda(ctx context.Context, ventaID uuid.UUID, monto decimal.Decimal) (*dto.PagarDeudaResponse, error) {
	if !monto.IsPositive() {
		return nil, errValidacion("el monto pagado debe ser mayor a cero")
	}

	venta, err := s.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errNoEncontrado("venta " + ventaID.String())
	}
	if venta.EstadoPago == model.EstadoPagado {
		return nil, ErrVentaPagada
	}

	nuevoPendiente := venta.MontoPendiente.Sub(monto)
	excedente := decimal.Zero
	if nuevoPendiente.IsNegative() {
		excedente = nuevoPendiente.Neg()
		nuevoPendiente = decimal.Zero
	}

	nuevoEstado := model.EstadoParcial
	if nuevoPendiente.IsZero() {
		nuevoEstado = model.EstadoPagado
	}

	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		return s.ventaRepo.UpdatePagoTx(tx, ventaID, nuevoPendiente, nuevoEstado)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.bus != nil {
		s.bus.Publish(events.TemaDeudas, "pagado", ventaID.String())
		s.bus.Publish(events.TemaVentas, "actualizado", ventaID.String())
	}
	if err := s.dispatcher.EnqueueRefrescoDeudas(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo encolar refresco de deudas")
	}

	return &dto.PagarDeudaResponse{
		VentaID:        ventaID.String(),
		MontoPagado:    monto,
		MontoPendiente: nuevoPendiente,
		EstadoPago:     nuevoEstado,
		Excedente:      excedente,
	}, nil
}
