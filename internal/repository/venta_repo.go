package repository

import (
	"context"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeudaAgregada is one row of the per-customer debt aggregation query.
type DeudaAgregada struct {
	ClienteID        uuid.UUID
	TotalDeuda       decimal.Decimal
	VentasPendientes int
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPendientesPorCliente returns the pendiente/parcial sales of one
	// customer, line items included.
	ListPendientesPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venta, error)

	// AggregateDeudas groups all pendiente/parcial sales by cliente and sums
	// their outstanding balances.
	AggregateDeudas(ctx context.Context) ([]DeudaAgregada, error)

	// UpdatePagoTx writes the new balance and payment state inside tx.
	UpdatePagoTx(tx *gorm.DB, id uuid.UUID, pendiente decimal.Decimal, estado string) error

	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").Preload("Cliente").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado_pago = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").Preload("Cliente").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Items fall with the venta via ON DELETE CASCADE. Stock is NOT restored:
	// sold units stay sold, the movement ledger keeps the audit trail.
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Venta{ID: id}).Error
}

func (r *ventaRepo) ListPendientesPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("cliente_id = ? AND estado_pago IN ?", clienteID,
			[]string{model.EstadoPendiente, model.EstadoParcial}).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) AggregateDeudas(ctx context.Context) ([]DeudaAgregada, error) {
	var rows []DeudaAgregada
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("cliente_id AS cliente_id, SUM(monto_pendiente) AS total_deuda, COUNT(*) AS ventas_pendientes").
		Where("cliente_id IS NOT NULL AND estado_pago IN ?",
			[]string{model.EstadoPendiente, model.EstadoParcial}).
		Group("cliente_id").
		Scan(&rows).Error
	return rows, err
}

func (r *ventaRepo) UpdatePagoTx(tx *gorm.DB, id uuid.UUID, pendiente decimal.Decimal, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"monto_pendiente": pendiente,
		"estado_pago":     estado,
	}).Error
}
