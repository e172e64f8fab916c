package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Joe-Bills/moto-spares-manager/internal/apierror"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/middleware"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
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
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom turns the JWT claims into the service-level caller.
func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	actor := service.Actor{Username: claims.Username, Privileged: claims.Privileged()}
	if id, err := uuid.Parse(claims.UserID); err == nil {
		actor.UserID = &id
	}
	return actor
}

// respondError maps service and domain errors onto HTTP responses.
// Anything unrecognised is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var stockErr *model.InsufficientStockError
	var valErr *service.ValidationError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, apierror.NewStock(stockErr.Error(), stockErr.ProductName, stockErr.Available, stockErr.Requested))
	case errors.As(err, &valErr):
		body := apierror.NewValidation(map[string]string{})
		if valErr.Field != "" {
			body.Fields[valErr.Field] = valErr.Message
		}
		body.Detail = valErr.Error()
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, infra.ErrUnsupportedImage), errors.Is(err, infra.ErrImageTooLarge):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
