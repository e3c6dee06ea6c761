package stubapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errUnauthorized   = errors.New("unauthorized")
	errForbidden      = errors.New("forbidden")
	errNotFound       = errors.New("not_found")
	errConflict       = errors.New("conflict")
	errInvalidRequest = errors.New("invalid_request")
)

// detailError carries a human message alongside the status sentinel.
type detailError struct {
	sentinel error
	detail   string
}

func (e detailError) Error() string { return e.detail }

func (e detailError) Unwrap() error { return e.sentinel }

func withDetail(sentinel error, detail string) error {
	return detailError{sentinel: sentinel, detail: detail}
}

// errorHandler converts deferred handler errors into JSON responses with
// a `detail` message, the envelope the client decodes.
func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		if last == nil {
			return
		}

		status, detail := mapError(last.Err)
		c.AbortWithStatusJSON(status, gin.H{"detail": detail})
	}
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	detail := ""
	var de detailError
	if errors.As(err, &de) {
		detail = de.detail
	}

	switch {
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, orDefault(detail, "not authenticated")
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, orDefault(detail, "admin access required")
	case errors.Is(err, errNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, orDefault(detail, "not found")
	case errors.Is(err, errConflict):
		return http.StatusConflict, orDefault(detail, "conflict")
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, orDefault(detail, "invalid request")
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func orDefault(detail, fallback string) string {
	if detail != "" {
		return detail
	}
	return fallback
}
