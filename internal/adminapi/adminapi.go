// Package adminapi implements the console's JSON API on top of the
// webserver route registry.
package adminapi

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every API group. Call after webserver.Init.
func RegisterRoutes() {
	registerLoginRoutes()
	registerChatsRoutes()
	registerTemplatesRoutes()
	registerSendMessageRoutes()
	registerUploadRoutes()
	registerFailedMessagesRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}
