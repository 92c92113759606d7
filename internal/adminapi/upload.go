package adminapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/webserver"
	"go.uber.org/zap"
)

const maxUploadSize = 100 << 20 // 100MB per file

func registerUploadRoutes() {
	webserver.ApiPOST("/upload", postUpload)
}

func allowedMimeType(mimeType string) bool {
	for _, prefix := range []string{"image/", "video/", "audio/"} {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

// postUpload stores multipart files into the uploads dir and answers with
// attachment metadata for later template references.
func postUpload(c echo.Context) error {
	appCtx := webserver.GetAppCtx(c)

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse upload", err.Error())
	}
	files := form.File["files"]
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "NO_FILES", "No files uploaded", nil)
	}

	uploadsDir := appCtx.Config().UploadsDir()
	uploaded := make([]domain.AttachmentRef, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadSize {
			return fail(c, http.StatusBadRequest, "FILE_TOO_LARGE",
				fmt.Sprintf("File %s exceeds the 100MB limit", fh.Filename), nil)
		}
		mimeType := fh.Header.Get("Content-Type")
		if !allowedMimeType(mimeType) {
			return fail(c, http.StatusBadRequest, "UNSUPPORTED_TYPE",
				fmt.Sprintf("File type not supported: %s", mimeType), nil)
		}

		storedName := appCtx.NextFileID() + filepath.Ext(fh.Filename)
		if err := saveUpload(fh, filepath.Join(uploadsDir, storedName)); err != nil {
			zap.L().Error("adminapi: store upload failed", zap.String("file", fh.Filename), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Error storing upload", nil)
		}

		uploaded = append(uploaded, domain.AttachmentRef{
			OriginalName: fh.Filename,
			Filename:     storedName,
			Path:         "/uploads/" + storedName,
			Size:         fh.Size,
			MimeType:     mimeType,
			UploadedAt:   time.Now().Format(time.RFC3339),
		})
	}

	return ok(c, map[string]interface{}{
		"success": true,
		"files":   uploaded,
		"message": fmt.Sprintf("Uploaded %d files", len(uploaded)),
	})
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
