package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type MensajesHandler struct{ svc service.MensajeService }

func NewMensajesHandler(svc service.MensajeService) *MensajesHandler {
	return &MensajesHandler{svc: svc}
}

// Pendiente godoc
// @Summary      Mensaje pendiente del pedido
// @Description  Devuelve el mensaje accionable actual (con el deep link de WhatsApp) o 204 si no hay ninguno.
// @Tags         mensajes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200 {object} dto.MensajeResponse
// @Success      204
// @Router       /v1/pedidos/{id}/mensajes/pendiente [get]
func (h *MensajesHandler) Pendiente(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Pendiente(c.Request.Context(), pedidoID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MensajesHandler) Historial(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), pedidoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarCopiado godoc
// @Summary      Marcar mensaje como copiado
// @Description  Registra que el usuario copio/envio el mensaje. Idempotente: repetir la operacion responde 204 igual.
// @Tags         mensajes
// @Security     BearerAuth
// @Param        id path string true "UUID del mensaje"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/mensajes/{id}/copiado [post]
func (h *MensajesHandler) MarcarCopiado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.MarcarCopiado(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
