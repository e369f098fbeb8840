package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto represents a catalog item of the bodega.
// Stock is nil for products of a special category: those are sold by weight
// or against a flat reference price and carry no unit count.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Categoria string          `gorm:"not null"`
	// Stock is the unit count for normal categories; nil = "sin stock"
	// sentinel for special categories. Never negative.
	Stock            *int
	Marca            *string
	FechaVencimiento *time.Time `gorm:"type:date"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Producto) TableName() string { return "productos" }

// TieneStock reports whether the product tracks units at all.
func (p *Producto) TieneStock() bool { return p.Stock != nil }
