package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type CuposHandler struct{ svc service.CupoService }

func NewCuposHandler(svc service.CupoService) *CuposHandler {
	return &CuposHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear cupo
// @Tags         cupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCupoRequest true "Datos del cupo"
// @Success      201 {object} dto.CupoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/cupos [post]
func (h *CuposHandler) Crear(c *gin.Context) {
	var req dto.CrearCupoRequest
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

func (h *CuposHandler) Obtener(c *gin.Context) {
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

func (h *CuposHandler) Listar(c *gin.Context) {
	var filter dto.CupoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cupos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuposHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCupoRequest
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

// Asignar godoc
// @Summary      Asignar item a cupo
// @Description  Coloca un item de pedido en el cupo. Responde 409 si el item no cabe (capacidad) o si el contenido resultante viola las reglas de compatibilidad (todas las razones en "motivos").
// @Tags         cupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del cupo"
// @Param        body body dto.AsignarItemRequest true "Item a asignar"
// @Success      200  {object} dto.CupoResponse
// @Failure      409  {object} apierror.IncompatibilidadError
// @Router       /v1/cupos/{id}/asignar [post]
func (h *CuposHandler) Asignar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AsignarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Asignar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuposHandler) Desasignar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de item invalido"))
		return
	}
	resp, err := h.svc.Desasignar(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Mover godoc
// @Summary      Mover item entre cupos
// @Description  Reubica un item en otro cupo de forma atomica: si el destino lo rechaza, el item permanece en el cupo origen.
// @Tags         cupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del cupo origen"
// @Param        body body dto.MoverItemRequest true "Item y cupo destino"
// @Success      200  {object} dto.CupoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cupos/{id}/mover [post]
func (h *CuposHandler) Mover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.MoverItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Mover(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarAutomatico godoc
// @Summary      Asignacion automatica
// @Description  Elige el cupo abierto del rango con menor capacidad restante que todavia recibe el item (mejor ajuste, empate por fecha mas temprana) y lo asigna.
// @Tags         cupos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AsignarAutomaticoRequest true "Item y rango de fechas"
// @Success      200  {object} dto.CupoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cupos/asignar-automatico [post]
func (h *CuposHandler) AsignarAutomatico(c *gin.Context) {
	var req dto.AsignarAutomaticoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarAutomatico(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
