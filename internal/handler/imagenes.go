package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/infra"
)

// maxImagenBytes caps uploads at 10 MB.
const maxImagenBytes = 10 << 20

type ImagenesHandler struct{ store *infra.ImagenStore }

func NewImagenesHandler(store *infra.ImagenStore) *ImagenesHandler {
	return &ImagenesHandler{store: store}
}

// Subir godoc
// @Summary      Subir imagen
// @Description  Recibe un archivo multipart (campo "archivo") y un bucket ("pedidos" o "pagos"); devuelve la URL publica.
// @Tags         imagenes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        bucket  formData string true  "pedidos | pagos"
// @Param        archivo formData file   true  "Imagen"
// @Success      201 {object} map[string]string
// @Failure      400 {object} apierror.APIError
// @Router       /v1/imagenes [post]
func (h *ImagenesHandler) Subir(c *gin.Context) {
	bucket := c.PostForm("bucket")
	if bucket != "pedidos" && bucket != "pagos" {
		c.JSON(http.StatusBadRequest, apierror.New("bucket invalido: use pedidos o pagos"))
		return
	}

	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("archivo requerido"))
		return
	}
	if fileHeader.Size > maxImagenBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("la imagen supera el limite de 10MB"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImagenBytes))
	if err != nil {
		_ = c.Error(err)
		return
	}

	url, err := h.store.Upload(bucket, fileHeader.Filename, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// Eliminar godoc
// @Summary      Eliminar imagen
// @Tags         imagenes
// @Security     BearerAuth
// @Param        url query string true "URL devuelta al subir"
// @Success      204
// @Router       /v1/imagenes [delete]
func (h *ImagenesHandler) Eliminar(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, apierror.New("url requerida"))
		return
	}
	if err := h.store.Delete(url); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
