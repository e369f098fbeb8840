package dto

import "github.com/shopspring/decimal"

// ─── Deudas ──────────────────────────────────────────────────────────────────

// ClienteDeudaResponse is one row of the per-customer debt aggregation:
// the sum of monto_pendiente across that customer's pendiente/parcial sales.
type ClienteDeudaResponse struct {
	ClienteID        string          `json:"cliente_id"`
	Nombre           string          `json:"nombre"`
	TotalDeuda       decimal.Decimal `json:"total_deuda"`
	VentasPendientes int             `json:"ventas_pendientes"`
}

type PagarDeudaRequest struct {
	VentaID string          `json:"venta_id" validate:"required,uuid"`
	Monto   decimal.Decimal `json:"monto"    validate:"required"`
}

// PagarDeudaResponse reports the settlement outcome. Excedente is the part of
// the payment above the outstanding balance — discarded by design, but
// surfaced so calling layers can decide what to do with it.
type PagarDeudaResponse struct {
	VentaID        string          `json:"venta_id"`
	MontoPagado    decimal.Decimal `json:"monto_pagado"`
	MontoPendiente decimal.Decimal `json:"monto_pendiente"`
	EstadoPago     string          `json:"estado_pago"`
	Excedente      decimal.Decimal `json:"excedente"`
}
