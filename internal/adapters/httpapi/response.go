package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/streak/internal/app"
	"github.com/example/streak/internal/ports/secondary"
)

// Response codes carried in the envelope next to the HTTP status.
const (
	CodeOK               = 0
	CodeInvalidInput     = 40001
	CodeNotFound         = 40401
	CodeRecoveryRequired = 40901
	CodeRecoveryNotAvail = 40902
	CodeDuplicateEpitaph = 40903
	CodeRateLimited      = 42901
	CodeInternal         = 50001
	CodeStoreUnavailable = 50301
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, CodeOK, "success", data)
}

func fail(c *gin.Context, status, code int, message string) {
	respond(c, status, code, message, nil)
}

// failWith maps a service error to a status and envelope code.
func failWith(c *gin.Context, err error) {
	var verr *app.ValidationError
	var serr *app.StoreUnavailableError

	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, CodeInvalidInput, verr.Reason)
	case errors.Is(err, app.ErrRecoveryRequired):
		fail(c, http.StatusConflict, CodeRecoveryRequired, err.Error())
	case errors.Is(err, app.ErrRecoveryNotAvailable):
		fail(c, http.StatusConflict, CodeRecoveryNotAvail, err.Error())
	case errors.Is(err, secondary.ErrDuplicateEpitaph):
		fail(c, http.StatusConflict, CodeDuplicateEpitaph, err.Error())
	case errors.As(err, &serr):
		_ = c.Error(err)
		fail(c, http.StatusServiceUnavailable, CodeStoreUnavailable, "storage temporarily unavailable, try again")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
