package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
	"github.com/viktorhino/gestor-cupos-sub001/internal/compat"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps typed domain failures onto HTTP statuses. Unknown errors
// are pushed onto the Gin error stack so ErrorHandler logs them and answers
// with an opaque 500.
func respondError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var validation *service.ValidationError
	var capacidad *service.CapacidadExcedidaError
	var incompatible *compat.IncompatibilidadError
	var transicion *model.TransicionInvalidaError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(notFound.Error()))
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, apierror.New(validation.Error()))
	case errors.As(err, &transicion):
		c.JSON(http.StatusConflict, apierror.New(transicion.Error()))
	case errors.As(err, &capacidad):
		c.JSON(http.StatusConflict, apierror.New(capacidad.Error()))
	case errors.As(err, &incompatible):
		c.JSON(http.StatusConflict, apierror.NewIncompatibilidad(incompatible.Motivos))
	default:
		_ = c.Error(err)
	}
}
