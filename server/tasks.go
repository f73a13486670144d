package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/store"
	"github.com/labstack/echo/v4"
)

// parseDateParam accepts a canonical YYYY-MM-DD key or an RFC3339
// timestamp and normalizes either to midnight UTC.
func parseDateParam(value string) (time.Time, error) {
	if day, err := calendar.ParseDateKey(value); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.ParseDateKey(calendar.DateKey(ts))
}

func taskID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// handleListTasks returns the caller's tasks, optionally filtered to
// one day (?date=) or one month (?year=&month=).
func (s *Server) handleListTasks(c echo.Context) error {
	filter := store.TaskFilter{}

	if raw := c.QueryParam("date"); raw != "" {
		day, err := parseDateParam(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date"})
		}
		filter.Date = &day
	} else if c.QueryParam("year") != "" || c.QueryParam("month") != "" {
		year, err := strconv.Atoi(c.QueryParam("year"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid year"})
		}
		month, err := strconv.Atoi(c.QueryParam("month"))
		if err != nil || month < 1 || month > 12 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid month"})
		}
		filter.Year = year
		filter.Month = time.Month(month)
	}

	tasks, err := s.store.ListTasks(c.Request().Context(), userID(c), filter)
	if err != nil {
		logger.Error("task list failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, tasks)
}

// handleCreateTask creates a task from a JSON body or a multipart
// form with an optional image file.
func (s *Server) handleCreateTask(c echo.Context) error {
	form, err := bindTaskForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if form.Date == nil || *form.Date == "" || form.Text == nil || *form.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "date and text are required"})
	}
	day, err := parseDateParam(*form.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date"})
	}

	imagePath, err := s.saveUpload(c)
	if err != nil {
		var ve *uploadValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		logger.Error("upload failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	color := ""
	if form.Color != nil {
		color = *form.Color
	}

	task, err := s.store.CreateTask(c.Request().Context(), userID(c), day, *form.Text, color, imagePath)
	if err != nil {
		logger.Error("task create failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, task)
}

// handleUpdateTask applies a partial update. Omitted fields keep
// their prior value. A new uploaded file replaces the stored one; a
// bare image URL string replaces the reference without file I/O.
func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	form, err := bindTaskForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	task, err := s.store.GetTask(ctx, userID(c), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	patch := store.TaskPatch{
		Text:  form.Text,
		Color: form.Color,
		Image: form.Image,
	}
	if form.Date != nil {
		day, err := parseDateParam(*form.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date"})
		}
		patch.Date = &day
	}
	if form.Completed != nil {
		patch.Completed = form.Completed
	}

	// A freshly uploaded file wins over any image string in the body.
	// The prior managed file is deleted first; if that fails the
	// whole operation fails.
	newPath, err := s.saveUpload(c)
	if err != nil {
		var ve *uploadValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		logger.Error("upload failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if newPath != "" {
		if err := s.removeUpload(task.Image); err != nil {
			logger.Error("stale image delete failed",
				logger.F("task_id", task.ID), logger.F("error", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to replace image"})
		}
		patch.Image = &newPath
	}

	updated, err := s.store.UpdateTask(ctx, userID(c), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
		}
		logger.Error("task update failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, updated)
}

// handleDeleteTask removes the row only; an attached image file is
// left in place.
func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	if err := s.store.DeleteTask(c.Request().Context(), userID(c), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
		}
		logger.Error("task delete failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "task deleted"})
}

type duplicateRequest struct {
	NewDate string `json:"newDate"`
}

// handleDuplicateTask copies a task's text and color to a new date;
// the copy starts incomplete and has no image.
func (s *Server) handleDuplicateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	var req duplicateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.NewDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "newDate is required"})
	}
	day, err := parseDateParam(req.NewDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date"})
	}

	ctx := c.Request().Context()
	src, err := s.store.GetTask(ctx, userID(c), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}

	dup, err := s.store.CreateTask(ctx, userID(c), day, src.Text, src.Color, "")
	if err != nil {
		logger.Error("task duplicate failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, dup)
}

// handleResetColors bulk-sets every owned task to the default color.
func (s *Server) handleResetColors(c echo.Context) error {
	if err := s.store.ResetTaskColors(c.Request().Context(), userID(c)); err != nil {
		logger.Error("color reset failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "task colors reset to default"})
}

// taskForm carries the optional task fields of a create or update
// request. Nil means the field was absent.
type taskForm struct {
	Date      *string `json:"date"`
	Text      *string `json:"text"`
	Color     *string `json:"color"`
	Completed *bool   `json:"completed"`
	Image     *string `json:"image"`
}

// bindTaskForm reads task fields from a JSON body or multipart form,
// preserving the absent/present distinction either way.
func bindTaskForm(c echo.Context) (taskForm, error) {
	var form taskForm

	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) || strings.HasPrefix(ct, echo.MIMEApplicationForm) {
		if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
			if err := c.Request().ParseMultipartForm(32 << 20); err != nil {
				return form, err
			}
		} else if err := c.Request().ParseForm(); err != nil {
			return form, err
		}
		values := c.Request().Form
		if v, ok := formValue(values, "date"); ok {
			form.Date = &v
		}
		if v, ok := formValue(values, "text"); ok {
			form.Text = &v
		}
		if v, ok := formValue(values, "color"); ok {
			form.Color = &v
		}
		if v, ok := formValue(values, "image"); ok {
			form.Image = &v
		}
		if v, ok := formValue(values, "completed"); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return form, err
			}
			form.Completed = &b
		}
		return form, nil
	}

	if err := c.Bind(&form); err != nil {
		return form, err
	}
	return form, nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
