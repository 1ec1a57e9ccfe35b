package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear pedido
// @Description  Crea un pedido con sus items, los precia y reserva el consecutivo. Si existe plantilla para (recibido, tipo) genera el mensaje de bienvenida.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPedidoRequest true "Detalle del pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar pedidos
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado     query string false "Filtro por estado"
// @Param        tipo       query string false "tarjetas | volantes"
// @Param        cliente_id query string false "UUID del cliente"
// @Param        desde      query string false "Fecha recepcion desde (YYYY-MM-DD)"
// @Param        hasta      query string false "Fecha recepcion hasta (YYYY-MM-DD)"
// @Param        page       query int    false "Pagina (default 1)"
// @Param        limit      query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.PedidoListResponse
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CambiarEstado godoc
// @Summary      Cambiar estado del pedido
// @Description  Aplica una transicion del ciclo de vida. Una transicion invalida responde 409 y no modifica el pedido. Si existe plantilla para el nuevo estado se genera el mensaje y se reemplaza el pendiente anterior.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del pedido"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/estado [patch]
func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) AgregarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ItemPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) EliminarItem(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de item invalido"))
		return
	}
	if err := h.svc.EliminarItem(c.Request.Context(), pedidoID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OrdenPDF godoc
// @Summary      Descargar orden de produccion
// @Description  Genera (o regenera) la hoja de orden de produccion en PDF y la devuelve como descarga.
// @Tags         pedidos
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pedidos/{id}/orden-pdf [get]
func (h *PedidosHandler) OrdenPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	path, err := h.svc.OrdenPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "orden.pdf")
}
