package handler

import (
	"net/http"

	"github.com/Crsto22/Bodega-sub000/internal/apierror"
	"github.com/Crsto22/Bodega-sub000/internal/dto"
	"github.com/Crsto22/Bodega-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeudasHandler struct{ svc service.DeudaService }

func NewDeudasHandler(svc service.DeudaService) *DeudasHandler { return &DeudasHandler{svc: svc} }

// Listar godoc
// @Summary      Clientes con deudas
// @Description  Agrega el saldo pendiente por cliente sobre sus ventas pendiente/parcial.
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ClienteDeudaResponse
// @Router       /v1/deudas [get]
func (h *DeudasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarClientesConDeudas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar deudas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVentasCliente godoc
// @Summary      Estado de cuenta de un cliente
// @Tags         deudas
// @Produce      json
// @Security     BearerAuth
// @Param        cliente_id path string true "UUID del cliente"
// @Success      200 {array}  dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/deudas/{cliente_id} [get]
func (h *DeudasHandler) ObtenerVentasCliente(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerVentasCliente(c.Request.Context(), clienteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary      Pagar deuda de una venta
// @Description  Aplica un pago al saldo pendiente. El excedente sobre el saldo se descarta y se reporta.
// @Tags         deudas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PagarDeudaRequest true "Pago"
// @Success      200 {object} dto.PagarDeudaResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/deudas/pagar [post]
func (h *DeudasHandler) Pagar(c *gin.Context) {
	var req dto.PagarDeudaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("venta_id invalido"))
		return
	}
	resp, err := h.svc.PagarDeuda(c.Request.Context(), ventaID, req.Monto)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
