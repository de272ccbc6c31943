package controllers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ricebook-backend/middleware"
	"ricebook-backend/store"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getUsername(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok && username != ""
}

// currentPrincipal assembles the acting principal from the request context
// placed there by the auth middleware.
func currentPrincipal(ctx *gin.Context) (store.Principal, bool) {
	id, ok := getUserID(ctx)
	if !ok {
		return store.Principal{}, false
	}
	username, ok := getUsername(ctx)
	if !ok {
		return store.Principal{}, false
	}
	return store.Principal{ID: id, Username: username}, true
}

const maxUploadSize = 10 * 1024 * 1024 // 10MB

// saveUploadedFile stores a multipart file under ./static/uploads/<subdir>
// partitioned by date and returns its public URL and filesystem path.
func saveUploadedFile(ctx *gin.Context, field, subdir string, userID uint) (string, string, error) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	if header.Size > 0 && header.Size > maxUploadSize {
		return "", "", fmt.Errorf("file size exceeds limit")
	}

	now := time.Now()
	baseDir := filepath.Join(".", "static", "uploads", subdir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", "", err
	}

	ext := filepath.Ext(header.Filename)
	if len(ext) > 10 {
		ext = ""
	}
	safeName := fmt.Sprintf("%d_%s%s", userID, uuid.New().String(), ext)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxUploadSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", "", err
	}
	if written > maxUploadSize {
		_ = os.Remove(dstPath)
		return "", "", fmt.Errorf("file size exceeds limit")
	}

	relURL := fmt.Sprintf("/static/uploads/%s/%s/%s/%s", subdir, now.Format("2006"), now.Format("01"), safeName)
	absPath, _ := filepath.Abs(dstPath)
	return relURL, absPath, nil
}

func isMultipart(ctx *gin.Context) bool {
	return ctx.ContentType() == "multipart/form-data"
}
