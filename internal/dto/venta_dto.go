package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha     string `form:"fecha"`  // YYYY-MM-DD; empty = all
	Estado    string `form:"estado"` // pagado | pendiente | parcial | all
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	// ClienteID is nil for anonymous sales ("Consumidor Final").
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	// EstadoPago: pagado | pendiente | parcial
	EstadoPago string `json:"estado_pago" validate:"required,oneof=pagado pendiente parcial"`
	// Adelanto is the upfront payment for estado parcial; ignored otherwise.
	Adelanto decimal.Decimal `json:"adelanto" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	ClienteID      *string             `json:"cliente_id"`
	Cliente        string              `json:"cliente"`
	Items          []ItemVentaResponse `json:"items"`
	Total          decimal.Decimal     `json:"total"`
	EstadoPago     string              `json:"estado_pago"`
	MontoPendiente decimal.Decimal     `json:"monto_pendiente"`
	Fecha          string              `json:"fecha"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
