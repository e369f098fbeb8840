package service_test

import (
	"context"
	"sort"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/model"
	"github.com/Crsto22/Bodega-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so services run their
// transactions in direct mode (runTx calls fn(nil)).

// ── stubProductoRepo ──────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Snapshot semantics: the caller's copy must not see later decrements.
	cp := *p
	if p.Stock != nil {
		s := *p.Stock
		cp.Stock = &s
	}
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if filter.Categoria != "" && p.Categoria != filter.Categoria {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || p.Stock == nil || *p.Stock < cantidad {
		return gorm.ErrRecordNotFound
	}
	*p.Stock -= cantidad
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── stubClienteRepo ───────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── stubVentaRepo ─────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.EstadoPago != filter.Estado {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.ventas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) ListPendientesPorCliente(_ context.Context, clienteID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.ClienteID == nil || *v.ClienteID != clienteID {
			continue
		}
		if v.EstadoPago != model.EstadoPendiente && v.EstadoPago != model.EstadoParcial {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVentaRepo) AggregateDeudas(_ context.Context) ([]repository.DeudaAgregada, error) {
	acc := make(map[uuid.UUID]*repository.DeudaAgregada)
	for _, v := range r.ventas {
		if v.ClienteID == nil {
			continue
		}
		if v.EstadoPago != model.EstadoPendiente && v.EstadoPago != model.EstadoParcial {
			continue
		}
		row, ok := acc[*v.ClienteID]
		if !ok {
			row = &repository.DeudaAgregada{ClienteID: *v.ClienteID, TotalDeuda: decimal.Zero}
			acc[*v.ClienteID] = row
		}
		row.TotalDeuda = row.TotalDeuda.Add(v.MontoPendiente)
		row.VentasPendientes++
	}
	out := make([]repository.DeudaAgregada, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubVentaRepo) UpdatePagoTx(_ *gorm.DB, id uuid.UUID, pendiente decimal.Decimal, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.MontoPendiente = pendiente
	v.EstadoPago = estado
	return nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── stubMovimientoStockRepo ───────────────────────────────────────────────────

type stubMovimientoStockRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoStockRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoStockRepo)(nil)

// ── seed helpers ──────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, categoria string, precio float64, stock *int) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		Categoria: categoria,
		Precio:    decimal.NewFromFloat(precio),
		Stock:     stock,
	}
	repo.productos[p.ID] = p
	return p
}

func seedCliente(repo *stubClienteRepo, nombre string) *model.Cliente {
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre}
	repo.clientes[c.ID] = c
	return c
}

func intPtr(n int) *int { return &n }
