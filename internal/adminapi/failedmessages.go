package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/webserver"
)

func registerFailedMessagesRoutes() {
	webserver.ApiGET("/failed-messages", listFailedMessages)
	webserver.ApiDELETE("/failed-messages/:id", deleteFailedMessage)
}

func listFailedMessages(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	return ok(c, map[string]interface{}{
		"success":        true,
		"failedMessages": appCtx.FailedMessages().All(),
	})
}

// deleteFailedMessage removes one failure record, typically after the
// operator retried the send successfully.
func deleteFailedMessage(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	removed, err := appCtx.FailedMessages().Remove(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Error deleting failed message", err.Error())
	}
	if !removed {
		return fail(c, http.StatusNotFound, "FAILED_MESSAGE_NOT_FOUND", "Failed message not found", nil)
	}
	return ok(c, map[string]interface{}{"success": true, "message": "Failed message deleted"})
}
