package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment states of a sale. Pagado is terminal; a sale never moves back to
// Pendiente once partially paid.
const (
	EstadoPagado    = "pagado"
	EstadoPendiente = "pendiente"
	EstadoParcial   = "parcial"
)

// Venta records a sale: its line items, the total at creation time and the
// outstanding balance. Total is immutable after creation; MontoPendiente only
// ever decreases, through DeudaService.PagarDeuda.
type Venta struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// ClienteID is nil for anonymous sales ("Consumidor Final"). Credit
	// sales (pendiente/parcial) always carry a cliente.
	ClienteID      *uuid.UUID      `gorm:"type:uuid;index"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstadoPago     string          `gorm:"type:varchar(20);not null;index"`
	MontoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem is one line of a sale. PrecioUnitario and Subtotal are snapshots
// taken at sale time — later catalog price edits never touch them.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }
