package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxImageSize caps uploaded task images at 5 MiB.
const maxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// uploadValidationError marks upload rejections the client caused
// (wrong type, too large). Handlers map it to 400.
type uploadValidationError struct {
	msg string
}

func (e *uploadValidationError) Error() string { return e.msg }

// saveUpload stores an uploaded "image" multipart file under the
// managed upload area and returns its reference path. Returns ""
// when the request carries no file.
func (s *Server) saveUpload(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// Plain JSON requests and forms without a file land here.
		return "", nil
	}

	if file.Size > maxImageSize {
		return "", &uploadValidationError{msg: "image exceeds the 5 MiB limit"}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", &uploadValidationError{msg: "only jpeg, jpg, png, and gif images are allowed"}
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return "uploads/" + name, nil
}

// uploadFilePath resolves a stored image reference to a file inside
// the managed upload area, or "" for external URL references.
func (s *Server) uploadFilePath(image string) string {
	if image == "" || !strings.HasPrefix(image, "uploads/") {
		return ""
	}
	return filepath.Join(s.uploadDir, filepath.Base(image))
}

// removeUpload deletes a managed upload file. External references
// and already-missing files are not errors.
func (s *Server) removeUpload(image string) error {
	path := s.uploadFilePath(image)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// handleGetTaskImage streams a task's stored image as an attachment.
func (s *Server) handleGetTaskImage(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	task, err := s.store.GetTask(c.Request().Context(), userID(c), id)
	if err != nil || !task.HasImage() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
	}

	path := s.uploadFilePath(task.Image)
	if path == "" {
		// External URL reference; nothing to stream from disk.
		return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
	}
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
	}

	return c.Attachment(path, filepath.Base(path))
}

// handleDeleteTaskImage deletes the stored file and clears the
// task's image reference.
func (s *Server) handleDeleteTaskImage(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	ctx := c.Request().Context()
	task, err := s.store.GetTask(ctx, userID(c), id)
	if err != nil || !task.HasImage() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
	}

	if err := s.removeUpload(task.Image); err != nil {
		logger.Error("image delete failed", logger.F("task_id", task.ID), logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete image"})
	}
	if err := s.store.ClearTaskImage(ctx, userID(c), id); err != nil {
		logger.Error("image clear failed", logger.F("task_id", task.ID), logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "image deleted"})
}
