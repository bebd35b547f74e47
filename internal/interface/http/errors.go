package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/pkg/response"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

var statusByKind = map[error]int{
	application.ErrValidation:         http.StatusBadRequest,
	application.ErrConflict:           http.StatusConflict,
	application.ErrUnauthenticated:    http.StatusUnauthorized,
	application.ErrPresenceRequired:   http.StatusForbidden,
	application.ErrForbidden:          http.StatusForbidden,
	application.ErrNotFound:           http.StatusNotFound,
	application.ErrInvalidCredentials: http.StatusUnauthorized,
	application.ErrUnconfirmed:        http.StatusForbidden,
	application.ErrInvalidToken:       http.StatusBadRequest,
	application.ErrTokenExpired:       http.StatusBadRequest,
	application.ErrOtpMismatch:        http.StatusBadRequest,
	application.ErrOtpExpired:         http.StatusBadRequest,
	application.ErrDeliveryFailed:     http.StatusBadGateway,
	application.ErrTooManyAttempts:    http.StatusTooManyRequests,
}

// StatusOf maps an application error kind to its HTTP status; unknown errors are 500.
func StatusOf(err error) int {
	if s, ok := statusByKind[application.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope. Unexpected errors are logged and hidden behind a generic message.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusOf(err)
	var ae *application.Error
	if status == http.StatusInternalServerError || !errors.As(err, &ae) {
		_ = c.Error(err)
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("unexpected error")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Error[any](c, status, ae.Message, gin.H{"kind": ae.Kind.Error(), "op": ae.Op})
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
