package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/events"

	"github.com/gin-gonic/gin"
)

// EventosHandler exposes the change bus as a Server-Sent Events stream so the
// frontend can react to mutations without polling.
type EventosHandler struct{ bus *events.Bus }

func NewEventosHandler(bus *events.Bus) *EventosHandler { return &EventosHandler{bus: bus} }

// Stream godoc
// @Summary      Stream de cambios (SSE)
// @Description  Emite un evento por cada mutación confirmada. Filtro opcional por tema.
// @Tags         eventos
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        tema query string false "productos | clientes | proveedores | ventas | deudas"
// @Router       /v1/eventos [get]
func (h *EventosHandler) Stream(c *gin.Context) {
	tema := events.Tema(c.Query("tema"))

	ch, cancel := h.bus.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Heartbeat keeps intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case e, ok := <-ch:
			if !ok {
				return false
			}
			if tema != "" && e.Tema != tema {
				return true
			}
			payload, err := json.Marshal(e)
			if err != nil {
				return true
			}
			c.SSEvent("cambio", string(payload))
			return true
		}
	})
}
