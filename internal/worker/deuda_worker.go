package worker

// deuda_worker.go
// Recomputes the per-customer debt aggregate whenever the sales set changes
// and caches the result in Redis. The aggregate is derived state — losing the
// cache only costs a recomputation on the next read.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DeudasCacheKey = "deudas:agregado"
	DeudasCacheTTL = 10 * time.Minute
)

// DeudaWorker processes deudas_refresh jobs from QueueDeudas.
type DeudaWorker struct {
	ventaRepo   repository.VentaRepository
	clienteRepo repository.ClienteRepository
	rdb         *redis.Client
}

func NewDeudaWorker(ventaRepo repository.VentaRepository, clienteRepo repository.ClienteRepository, rdb *redis.Client) *DeudaWorker {
	return &DeudaWorker{ventaRepo: ventaRepo, clienteRepo: clienteRepo, rdb: rdb}
}

// Refrescar recomputes the aggregate from the live sales set and stores it.
func (w *DeudaWorker) Refrescar(ctx context.Context) error {
	deudas, err := ComputarDeudas(ctx, w.ventaRepo, w.clienteRepo)
	if err != nil {
		return err
	}

	data, err := json.Marshal(deudas)
	if err != nil {
		return err
	}
	if err := w.rdb.Set(ctx, DeudasCacheKey, data, DeudasCacheTTL).Err(); err != nil {
		return err
	}

	log.Debug().Int("clientes", len(deudas)).Msg("deudas aggregate refreshed")
	return nil
}

// ComputarDeudas aggregates pendiente/parcial sales per customer and resolves
// display names. Shared by the worker and the cache-miss path of DeudaService.
func ComputarDeudas(ctx context.Context, ventaRepo repository.VentaRepository, clienteRepo repository.ClienteRepository) ([]dto.ClienteDeudaResponse, error) {
	rows, err := ventaRepo.AggregateDeudas(ctx)
	if err != nil {
		return nil, err
	}

	deudas := make([]dto.ClienteDeudaResponse, 0, len(rows))
	for _, row := range rows {
		nombre := "Cliente no encontrado"
		if c, err := clienteRepo.FindByID(ctx, row.ClienteID); err == nil {
			nombre = c.Nombre
		}
		deudas = append(deudas, dto.ClienteDeudaResponse{
			ClienteID:        row.ClienteID.String(),
			Nombre:           nombre,
			TotalDeuda:       row.TotalDeuda,
			VentasPendientes: row.VentasPendientes,
		})
	}
	return deudas, nil
}
