package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a registered customer. Sales on credit always reference one;
// anonymous sales carry no cliente at all ("Consumidor Final").
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Correo    *string
	Telefono  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
