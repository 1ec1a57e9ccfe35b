package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type PlantillasHandler struct{ svc service.PlantillaService }

func NewPlantillasHandler(svc service.PlantillaService) *PlantillasHandler {
	return &PlantillasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear plantilla de mensaje
// @Description  Registra la plantilla para un par (estado disparador, tipo de pedido). Solo puede existir una plantilla activa por par.
// @Tags         plantillas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPlantillaRequest true "Plantilla"
// @Success      201  {object} dto.PlantillaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/plantillas [post]
func (h *PlantillasHandler) Crear(c *gin.Context) {
	var req dto.CrearPlantillaRequest
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

func (h *PlantillasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar plantillas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlantillasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPlantillaRequest
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

func (h *PlantillasHandler) Eliminar(c *gin.Context) {
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
