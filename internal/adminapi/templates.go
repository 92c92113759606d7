package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/webserver"
)

func registerTemplatesRoutes() {
	webserver.ApiGET("/templates", listTemplates)
	webserver.ApiPOST("/templates", createTemplate)
	webserver.ApiPUT("/templates/:id", updateTemplate)
	webserver.ApiDELETE("/templates/:id", deleteTemplate)
}

type templatePayload struct {
	DisplayName string                 `json:"displayName"`
	Content     string                 `json:"content"`
	Attachments []domain.AttachmentRef `json:"attachments"`
}

func listTemplates(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	return ok(c, map[string]interface{}{
		"success":   true,
		"templates": appCtx.Templates().All(),
	})
}

func createTemplate(c echo.Context) error {
	var payload templatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if payload.DisplayName == "" || payload.Content == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Missing displayName or content", nil)
	}

	appCtx := webserver.GetAppCtx(c)
	tpl, err := appCtx.Templates().Create(payload.DisplayName, payload.Content, payload.Attachments)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Error creating template", err.Error())
	}
	return ok(c, map[string]interface{}{"success": true, "template": tpl})
}

func updateTemplate(c echo.Context) error {
	var payload templatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if payload.DisplayName == "" || payload.Content == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Missing displayName or content", nil)
	}

	appCtx := webserver.GetAppCtx(c)
	tpl, err := appCtx.Templates().Update(c.Param("id"), payload.DisplayName, payload.Content, payload.Attachments)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return fail(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "Template not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Error updating template", err.Error())
	}
	return ok(c, map[string]interface{}{"success": true, "template": tpl})
}

func deleteTemplate(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)
	err := appCtx.Templates().Delete(c.Param("id"))
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return fail(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "Template not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Error deleting template", err.Error())
	}
	return ok(c, map[string]interface{}{"success": true, "message": "Template deleted"})
}
