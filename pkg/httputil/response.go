package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError maps the error's kind to an HTTP status and sends a
// discriminated failure response. Unexpected errors never leak details.
func RespondWithError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)

	message := err.Error()
	if kind == apperrors.KindInternal {
		message = "internal server error"
	}

	c.JSON(statusFor(kind), Response{
		Status:  "error",
		Error:   kind.String(),
		Message: message,
	})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindReferenceNotFound:
		return http.StatusUnprocessableEntity
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvalidTransition:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindAggregation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
