package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a supplier record. Pure data, no derived state.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	RUC       *string   `gorm:"column:ruc"`
	Telefono  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
