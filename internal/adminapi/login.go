package adminapi

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/webserver"
	"go.uber.org/zap"
)

func registerLoginRoutes() {
	webserver.ApiGET("/status", getStatus)
	webserver.ApiPOST("/qr", postQR)
	webserver.ApiPOST("/logout", postLogout)
}

func getStatus(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	_, err := os.Stat(appCtx.Config().QRFile())
	return ok(c, map[string]interface{}{
		"status": appCtx.SessionStore().Status(),
		"hasQR":  err == nil,
	})
}

type qrPayload struct {
	Action string `json:"action"`
}

// postQR starts or refreshes a QR login attempt. The response carries the QR
// image reference and the attempt token; the login itself resolves in the
// background.
func postQR(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	if appCtx.SessionStore().Authenticated() {
		return fail(c, http.StatusBadRequest, "ALREADY_AUTHENTICATED", "Already logged in", nil)
	}

	var payload qrPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	zap.L().Info("adminapi: qr login requested", zap.String("action", payload.Action))

	result := appCtx.LoginFlow().Begin()
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, result)
}

func postLogout(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	appCtx.LoginFlow().Logout()
	return ok(c, map[string]interface{}{"success": true, "message": "Logged out"})
}
