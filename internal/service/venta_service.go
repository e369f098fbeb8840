package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/repository"
	"github.com/Crsto22/Bodega-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NombreConsumidorFinal is the display name for anonymous sales.
const NombreConsumidorFinal = "Consumidor Final"

// NombreProductoEliminado is the fallback display name when a sold product
// was later deleted from the catalog.
const NombreProductoEliminado = "Producto no encontrado"

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	EliminarVenta(ctx context.Context, id uuid.UUID) error
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	movRepo      repository.MovimientoStockRepository
	bus          *events.Bus
	dispatcher   *worker.Dispatcher

	// Read-model caches for the denormalized projections. Invalidated by the
	// change bus when a producto/cliente is edited or deleted.
	nombresProducto *nombreCache
	nombresCliente  *nombreCache
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	movRepo repository.MovimientoStockRepository,
	bus *events.Bus,
	dispatcher *worker.Dispatcher,
) VentaService {
	s := &ventaService{
		repo:            repo,
		productoRepo:    productoRepo,
		clienteRepo:     clienteRepo,
		movRepo:         movRepo,
		bus:             bus,
		dispatcher:      dispatcher,
		nombresProducto: newNombreCache(),
		nombresCliente:  newNombreCache(),
	}
	if bus != nil {
		go s.escucharInvalidaciones()
	}
	return s
}

// escucharInvalidaciones drops cached names when the underlying entity changes.
func (s *ventaService) escucharInvalidaciones() {
	ch, cancel := s.bus.Subscribe()
	defer cancel()
	for e := range ch {
		if e.Accion != "actualizado" && e.Accion != "eliminado" {
			continue
		}
		id, err := uuid.Parse(e.ID)
		if err != nil {
			continue
		}
		switch e.Tema {
		case events.TemaProductos:
			s.nombresProducto.invalidar(id)
		case events.TemaClientes:
			s.nombresCliente.invalidar(id)
		}
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Creates the sale and decrements stock as one all-or-nothing transaction:
//   1. Resolve cliente and every product; compute line subtotals from catalog
//      prices and the pending balance from estado_pago.
//   2. BEGIN TX: insert venta+items, conditionally decrement stock of every
//      unit-tracked product, record stock movements.
//   3. COMMIT — a failed decrement (shortage or vanished product) rolls the
//      whole thing back, so no partial state is ever visible.
//
// The stock check IS the decrement: a single UPDATE guarded by stock >=
// cantidad. Two concurrent sales of the last units cannot both pass.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, errValidacion("la venta no tiene items")
	}

	// 1. Resolve cliente. Credit requires an identified customer — asserted
	// here, not only in the calling layer.
	var clienteID *uuid.UUID
	clienteNombre := NombreConsumidorFinal
	if req.ClienteID != nil && *req.ClienteID != "" {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, errValidacion("cliente_id inválido")
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, errNoEncontrado("cliente " + cid.String())
		}
		clienteID = &cid
		clienteNombre = cliente.Nombre
		s.nombresCliente.put(cid, cliente.Nombre)
	} else if req.EstadoPago != model.EstadoPagado {
		return nil, ErrCreditoAnonimo
	}

	// 2. Resolve products and compute totals (pre-flight, outside TX).
	type resolvedItem struct {
		producto *model.Producto
		cantidad int
		subtotal decimal.Decimal
	}

	resolved := make([]resolvedItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, errValidacion("producto_id inválido")
		}
		if item.Cantidad < 1 {
			return nil, errValidacion("cantidad debe ser al menos 1")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, errNoEncontrado("producto " + item.ProductoID)
		}
		// Pre-flight shortage check for a precise error before touching the
		// store. The authoritative guard is still the conditional decrement
		// inside the transaction — this read alone could race.
		if !model.EsCategoriaEspecial(p.Categoria) {
			disponible := 0
			if p.Stock != nil {
				disponible = *p.Stock
			}
			if item.Cantidad > disponible {
				return nil, &StockInsuficienteError{
					ProductoID: pid,
					Nombre:     p.Nombre,
					Solicitado: item.Cantidad,
					Disponible: disponible,
				}
			}
		}
		subtotal := p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{producto: p, cantidad: item.Cantidad, subtotal: subtotal})
		s.nombresProducto.put(pid, p.Nombre)
	}

	// 3. Pending balance from estado_pago.
	pendiente, err := montoPendienteInicial(req.EstadoPago, total, req.Adelanto)
	if err != nil {
		return nil, err
	}

	// 4. ACID transaction: conditional stock decrements + venta insert.
	venta := model.Venta{
		ID:             uuid.New(),
		ClienteID:      clienteID,
		Total:          total,
		EstadoPago:     req.EstadoPago,
		MontoPendiente: pendiente,
	}
	for _, r := range resolved {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     r.producto.ID,
			Cantidad:       r.cantidad,
			PrecioUnitario: r.producto.Precio,
			Subtotal:       r.subtotal,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, r := range resolved {
			// Special categories carry no unit count — nothing to decrement.
			if model.EsCategoriaEspecial(r.producto.Categoria) {
				continue
			}
			if err := s.productoRepo.DescontarStockTx(tx, r.producto.ID, r.cantidad); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					disponible := 0
					if r.producto.Stock != nil {
						disponible = *r.producto.Stock
					}
					return &StockInsuficienteError{
						ProductoID: r.producto.ID,
						Nombre:     r.producto.Nombre,
						Solicitado: r.cantidad,
						Disponible: disponible,
					}
				}
				return fmt.Errorf("descontando stock de %s: %w", r.producto.Nombre, err)
			}

			stockAntes := 0
			if r.producto.Stock != nil {
				stockAntes = *r.producto.Stock
			}
			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.producto.ID,
				Tipo:          "venta",
				Cantidad:      -r.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - r.cantidad,
				Motivo:        fmt.Sprintf("Venta %s", venta.ID),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return s.repo.Create(ctx, tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	// 5. Fan out the change. Best effort — the sale is already committed.
	if s.bus != nil {
		s.bus.Publish(events.TemaVentas, "creado", venta.ID.String())
		if pendiente.IsPositive() {
			s.bus.Publish(events.TemaDeudas, "creado", venta.ID.String())
		}
	}
	if err := s.dispatcher.EnqueueRefrescoDeudas(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo encolar refresco de deudas")
	}

	// 6. Denormalized response.
	resp := s.ventaToResponse(ctx, &venta)
	resp.Cliente = clienteNombre
	for i, r := range resolved {
		resp.Items[i].Producto = r.producto.Nombre
	}
	return resp, nil
}

// montoPendienteInicial derives the opening balance from the payment state:
// pagado → 0, pendiente → total, parcial → total − adelanto (0 < adelanto < total).
func montoPendienteInicial(estado string, total, adelanto decimal.Decimal) (decimal.Decimal, error) {
	switch estado {
	case model.EstadoPagado:
		return decimal.Zero, nil
	case model.EstadoPendiente:
		return total, nil
	case model.EstadoParcial:
		if !adelanto.IsPositive() {
			return decimal.Zero, errValidacion("una venta parcial requiere un adelanto mayor a cero")
		}
		if adelanto.GreaterThanOrEqual(total) {
			return decimal.Zero, errValidacion("el adelanto cubre el total: registre la venta como pagada")
		}
		return total.Sub(adelanto), nil
	default:
		return decimal.Zero, errValidacion("estado_pago desconocido: " + estado)
	}
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────

// EliminarVenta removes the sale document. Stock is deliberately NOT
// restored: sold units stay sold and the movement ledger keeps the history.
func (s *ventaService) EliminarVenta(ctx context.Context, id uuid.UUID) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errNoEncontrado("venta " + id.String())
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(events.TemaVentas, "eliminado", id.String())
		if venta.MontoPendiente.IsPositive() {
			s.bus.Publish(events.TemaDeudas, "eliminado", id.String())
		}
	}
	if err := s.dispatcher.EnqueueRefrescoDeudas(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo encolar refresco de deudas")
	}
	return nil
}

// ── ListarVentas ──────────────────────────────────────────────────────────────

// ListarVentas returns the denormalized projection: every sale with its
// customer and product display names resolved (cached per id within the
// service's lifetime).
func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *s.ventaToResponse(ctx, &ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ventaToResponse denormalizes one sale for display.
func (s *ventaService) ventaToResponse(ctx context.Context, v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for i := range v.Items {
		item := &v.Items[i]
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       s.resolverNombreProducto(ctx, item),
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}

	resp := &dto.VentaResponse{
		ID:             v.ID.String(),
		Cliente:        s.resolverNombreCliente(ctx, v),
		Items:          items,
		Total:          v.Total,
		EstadoPago:     v.EstadoPago,
		MontoPendiente: v.MontoPendiente,
		Fecha:          v.CreatedAt.Format(time.RFC3339),
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	return resp
}

func (s *ventaService) resolverNombreProducto(ctx context.Context, item *model.VentaItem) string {
	if item.Producto != nil {
		s.nombresProducto.put(item.ProductoID, item.Producto.Nombre)
		return item.Producto.Nombre
	}
	if nombre, ok := s.nombresProducto.get(item.ProductoID); ok {
		return nombre
	}
	if p, err := s.productoRepo.FindByID(ctx, item.ProductoID); err == nil {
		s.nombresProducto.put(item.ProductoID, p.Nombre)
		return p.Nombre
	}
	return NombreProductoEliminado
}

func (s *ventaService) resolverNombreCliente(ctx context.Context, v *model.Venta) string {
	if v.ClienteID == nil {
		return NombreConsumidorFinal
	}
	if v.Cliente != nil {
		s.nombresCliente.put(*v.ClienteID, v.Cliente.Nombre)
		return v.Cliente.Nombre
	}
	if nombre, ok := s.nombresCliente.get(*v.ClienteID); ok {
		return nombre
	}
	if c, err := s.clienteRepo.FindByID(ctx, *v.ClienteID); err == nil {
		s.nombresCliente.put(*v.ClienteID, c.Nombre)
		return c.Nombre
	}
	return NombreConsumidorFinal
}
