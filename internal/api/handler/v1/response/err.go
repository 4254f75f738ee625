package response

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every error response.
type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	RetryAfter     int    `json:"-"`
	StatusText     string `json:"status"`
	Code           string `json:"code,omitempty"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}

	return e.Err.Error()
}

// RenderErr writes e and aborts the handler chain. Server errors are logged
// and their cause is never sent to the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError && e.HTTPStatusCode != http.StatusServiceUnavailable {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.Err),
		)
	}

	if e.RetryAfter > 0 {
		ctx.Header("Retry-After", strconv.Itoa(e.RetryAfter))
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		Code:           "invalid_input",
		ErrorText:      err.Error(),
	}
}

// ErrValidation is a 400 carrying a machine readable code.
func ErrValidation(code string, err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		Code:           code,
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	err := fmt.Errorf("%s with %s %v not found", resource, field, value)

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found",
		Code:           "not_found",
		ErrorText:      err.Error(),
	}
}

func ErrNotFoundErr(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found",
		Code:           "not_found",
		ErrorText:      err.Error(),
	}
}

func ErrUnprocessable(code string, err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Unprocessable entity",
		Code:           code,
		ErrorText:      err.Error(),
	}
}

func ErrConflict(code string, err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict",
		Code:           code,
		ErrorText:      err.Error(),
	}
}

func ErrServiceUnavailable(err error, retryAfter time.Duration) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusServiceUnavailable,
		RetryAfter:     int(retryAfter.Seconds()),
		StatusText:     "Service unavailable",
		Code:           "busy",
		ErrorText:      err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied",
		Code:           "unauthorized",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized",
		Code:           "unauthenticated",
		ErrorText:      err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials",
		Code:           "wrong_credentials",
		ErrorText:      "email or password is incorrect",
	}
}

func ErrTooManyRequests(retryAfter time.Duration) *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		RetryAfter:     int(retryAfter.Seconds()),
		StatusText:     "Too many requests",
		Code:           "rate_limited",
		ErrorText:      "rate limit exceeded",
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error",
		Code:           "internal",
		ErrorText:      "something went wrong",
	}
}
