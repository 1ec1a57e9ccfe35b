package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler {
	return &PagosHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar pago
// @Description  Agrega un abono al pedido. Los pagos son inmutables, el saldo se deriva siempre de la lista completa.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del pedido"
// @Param        body body dto.RegistrarPagoRequest true "Detalle del pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), pedidoID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Balance godoc
// @Summary      Balance del pedido
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200 {object} dto.BalanceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pedidos/{id}/balance [get]
func (h *PagosHandler) Balance(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), pedidoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
