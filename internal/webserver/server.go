// Package webserver hosts the embedded echo server: API route registration,
// static assets, page redirects and the status push channel.
package webserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talkincode/zcast/internal/app"
	"go.uber.org/zap"
)

const appContextKey = "zcast_app_context"

var server *WebServer

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
	hub    *EventHub
}

// Init builds the global web server instance. Route registration through
// ApiGET etc. must happen after Init.
func Init(appCtx app.AppContext, hub *EventHub) {
	server = NewWebServer(appCtx, hub)
}

func NewWebServer(appCtx app.AppContext, hub *EventHub) *WebServer {
	s := &WebServer{root: echo.New(), appCtx: appCtx, hub: hub}
	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORS())
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})
	s.root.HTTPErrorHandler = serverErrorHandler
	s.root.HideBanner = true

	s.registerPages()
	return s
}

// serverErrorHandler keeps error payloads structured; stack traces stay in
// the log.
func serverErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
	}
	zap.L().Error("http error", zap.String("path", c.Path()), zap.Error(err))
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]interface{}{"success": false, "message": msg})
	}
}

func (s *WebServer) registerPages() {
	cfg := s.appCtx.Config()
	publicDir := cfg.Web.PublicDir

	s.root.GET("/", func(c echo.Context) error {
		if s.appCtx.AuthGate().EnsureSession(c.Request().Context()) && s.appCtx.SessionStore().Authenticated() {
			return c.Redirect(http.StatusFound, "/chats")
		}
		return c.Redirect(http.StatusFound, "/login")
	})

	for _, page := range []string{"login", "chats", "templates", "failed-messages"} {
		page := page
		s.root.GET("/"+page, func(c echo.Context) error {
			return c.File(filepath.Join(publicDir, page+".html"))
		})
	}

	s.root.GET("/qr.png", func(c echo.Context) error {
		qrPath := s.appCtx.Config().QRFile()
		if _, err := os.Stat(qrPath); err != nil {
			return c.String(http.StatusNotFound, "QR code not found")
		}
		return c.File(qrPath)
	})

	s.root.Static("/uploads", cfg.UploadsDir())
	s.root.Static("/public", publicDir)

	s.root.GET("/api/events", s.hub.Handle)
}

// Listen blocks serving HTTP until the listener fails.
func Listen() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("webserver listening", zap.String("addr", addr))
	return server.root.Start(addr)
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Instance returns the global web server built by Init.
func Instance() *WebServer {
	return server
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}

// GetAppCtx pulls the application context injected by the server middleware.
func GetAppCtx(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}
