package handler

import (
	"errors"
	"net/http"

	"github.com/Crsto22/Bodega-sub000/internal/apierror"
	"github.com/Crsto22/Bodega-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy to HTTP statuses.
// Anything outside the taxonomy is an internal failure and hides its detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case service.EsStockInsuficiente(err):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrVentaPagada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCreditoAnonimo):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidacion):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
