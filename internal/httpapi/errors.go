package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/workflow"
	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrCredentialRequired), errors.Is(err, common.ErrCredentialInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrBusy), errors.Is(err, common.ErrNotRunning),
		errors.Is(err, common.ErrNoScenes), errors.Is(err, common.ErrNoVideos),
		errors.Is(err, common.ErrNoStills):
		return http.StatusConflict
	case errors.Is(err, common.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, workflow.ErrExportDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	var alert *workflow.Alert
	if errors.As(err, &alert) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError renders err. Alerts carry their localized message separately.
func (h *Handler) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	body := gin.H{"error": err.Error()}
	var alert *workflow.Alert
	if errors.As(err, &alert) {
		body["alert"] = alert.Message
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "status", code, "error", err)
	}
	c.JSON(code, body)
}
