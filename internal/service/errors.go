package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy of the core. Handlers map these to HTTP statuses; everything
// else (driver failures, network) propagates wrapped and surfaces as a 500.
var (
	ErrValidacion   = errors.New("validación fallida")
	ErrNoEncontrado = errors.New("no encontrado")

	// ErrCreditoAnonimo: a credit sale (pendiente/parcial) requires an
	// identified cliente. Asserted by the engine itself, not only the UI.
	ErrCreditoAnonimo = errors.New("una venta a crédito requiere un cliente identificado")

	// ErrVentaPagada: paying a sale that already reached pagado.
	ErrVentaPagada = errors.New("la venta ya está pagada")
)

// StockInsuficienteError is returned when the conditional decrement cannot be
// satisfied: the requested quantity exceeds the available stock.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Nombre     string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d",
		e.Nombre, e.Solicitado, e.Disponible)
}

// EsStockInsuficiente reports whether err is (or wraps) a stock shortage.
func EsStockInsuficiente(err error) bool {
	var target *StockInsuficienteError
	return errors.As(err, &target)
}

func errValidacion(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidacion, msg)
}

func errNoEncontrado(what string) error {
	return fmt.Errorf("%w: %s", ErrNoEncontrado, what)
}
