package adminapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/webserver"
	"github.com/talkincode/zcast/pkg/metrics"
	"go.uber.org/zap"
)

func registerSendMessageRoutes() {
	webserver.ApiPOST("/send-message", postSendMessage)
}

type sendMessagePayload struct {
	ChatIDs    []string `json:"chatIds"`
	TemplateID string   `json:"templateId"`
}

// postSendMessage broadcasts one template to the selected recipients. The
// response always carries per-recipient results; any failure downgrades the
// status code while the successful sends stand.
func postSendMessage(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	ctx := c.Request().Context()

	if !appCtx.AuthGate().EnsureSession(ctx) || !appCtx.SessionStore().Authenticated() {
		return fail(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not logged in", nil)
	}

	var payload sendMessagePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if len(payload.ChatIDs) == 0 || payload.TemplateID == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Missing chatIds or templateId", nil)
	}

	result, err := appCtx.Broadcaster().Broadcast(ctx, payload.ChatIDs, payload.TemplateID)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return fail(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "Message template not found", nil)
	} else if errors.Is(err, domain.ErrNotAuthenticated) {
		return fail(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not logged in", nil)
	} else if err != nil {
		zap.L().Error("adminapi: broadcast failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "BROADCAST_ERROR", "Error sending messages", nil)
	}

	metrics.IncrCounter("broadcast_sent", int64(result.Sent))
	metrics.IncrCounter("broadcast_failed", int64(result.FailedCount))

	if result.FailedCount > 0 {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success":     false,
			"message":     fmt.Sprintf("Sending failed for %d chats", result.FailedCount),
			"results":     result.Results,
			"sent":        result.Sent,
			"failedCount": result.FailedCount,
		})
	}
	return ok(c, map[string]interface{}{
		"success": true,
		"message": "Messages sent",
		"results": result.Results,
		"sent":    result.Sent,
	})
}
