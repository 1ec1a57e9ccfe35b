package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

type CatalogosHandler struct{ svc service.CatalogoService }

func NewCatalogosHandler(svc service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{svc: svc}
}

// ── Referencias de tarjeta ───────────────────────────────────────────────────

// CrearReferencia godoc
// @Summary      Crear referencia de tarjeta
// @Tags         catalogos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearReferenciaRequest true "Referencia"
// @Success      201  {object} dto.CatalogoResponse
// @Router       /v1/referencias [post]
func (h *CatalogosHandler) CrearReferencia(c *gin.Context) {
	var req dto.CrearReferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearReferencia(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogosHandler) ListarReferencias(c *gin.Context) {
	resp, err := h.svc.ListarReferencias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar referencias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) ActualizarReferencia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarReferencia(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) DesactivarReferencia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarReferencia(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Tipos de volante ─────────────────────────────────────────────────────────

func (h *CatalogosHandler) CrearTipoVolante(c *gin.Context) {
	var req dto.CrearTipoVolanteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTipoVolante(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogosHandler) ListarTiposVolante(c *gin.Context) {
	resp, err := h.svc.ListarTiposVolante(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tipos de volante"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) ActualizarTipoVolante(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarTipoVolante(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) DesactivarTipoVolante(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarTipoVolante(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
