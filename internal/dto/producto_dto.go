package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre    string          `json:"nombre"    validate:"required,min=2,max=120"`
	Precio    decimal.Decimal `json:"precio"    validate:"required,min=0"`
	Categoria string          `json:"categoria" validate:"required"`
	// Stock is required for normal categories and ignored (forced to the
	// nil sentinel) for special ones — enforced in the service.
	Stock            *int    `json:"stock"             validate:"omitempty,min=0"`
	Marca            *string `json:"marca"`
	FechaVencimiento *string `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarProductoRequest struct {
	Nombre           *string          `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Precio           *decimal.Decimal `json:"precio"`
	Categoria        *string          `json:"categoria"`
	Stock            *int             `json:"stock"             validate:"omitempty,min=0"`
	Marca            *string          `json:"marca"`
	FechaVencimiento *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Categoria string          `json:"categoria"`
	// Stock is null for special categories (sin stock).
	Stock            *int    `json:"stock"`
	Marca            *string `json:"marca"`
	FechaVencimiento *string `json:"fecha_vencimiento"`
	Especial         bool    `json:"especial"`
	CreatedAt        string  `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPrecioResponse is returned by the public price check endpoint.
type ConsultaPrecioResponse struct {
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Categoria string          `json:"categoria"`
	Stock     *int            `json:"stock"`
}
