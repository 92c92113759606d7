package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/webserver"
	"go.uber.org/zap"
)

func registerChatsRoutes() {
	webserver.ApiGET("/chats", getChats)
	webserver.ApiPOST("/chats/refresh", postRefreshChats)
}

// getChats lists the cached roster, optionally filtered by a case-insensitive
// name substring. A term matching nothing yields an empty list, not an error.
func getChats(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	chats := appCtx.SessionStore().SearchRoster(c.QueryParam("search"))
	return ok(c, map[string]interface{}{"chats": chats})
}

func postRefreshChats(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	ctx := c.Request().Context()

	if !appCtx.AuthGate().EnsureSession(ctx) || !appCtx.SessionStore().Authenticated() {
		return fail(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not logged in", nil)
	}

	cli := appCtx.SessionStore().Handle()
	list, err := appCtx.RosterSyncer().Sync(ctx, cli)
	if err != nil {
		zap.L().Error("adminapi: roster refresh failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "ROSTER_SYNC_FAILED", "Failed to refresh chat list", nil)
	}
	zap.L().Info("adminapi: roster refreshed", zap.Int("chats", len(list)))
	return ok(c, map[string]interface{}{"success": true, "message": "Chat list refreshed"})
}
