package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/apierror"
	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPrecioHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPrecioHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaPrecioHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaPrecioHandler {
	return &ConsultaPrecioHandler{repo: repo, rdb: rdb}
}

// GetPrecio godoc
// @Summary Consulta de precio por id (sin autenticacion)
// @Tags precio
// @Produce json
// @Param id path string true "UUID del producto"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{id} [get]
func (h *ConsultaPrecioHandler) GetPrecio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "precio:" + id.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecioResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	producto, err := h.repo.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	resp := dto.ConsultaPrecioResponse{
		Nombre:    producto.Nombre,
		Precio:    producto.Precio,
		Categoria: producto.Categoria,
		Stock:     producto.Stock,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
