package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/model"
)

// TasksForDate lists the tasks on a single day.
func (c *Client) TasksForDate(date time.Time) ([]model.Task, error) {
	path := "/api/tasks?date=" + url.QueryEscape(calendar.DateKey(date))
	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := decode(resp, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TasksForMonth lists all tasks in a month.
func (c *Client) TasksForMonth(m calendar.Month) ([]model.Task, error) {
	path := fmt.Sprintf("/api/tasks?year=%d&month=%d", m.Year, int(m.Month))
	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := decode(resp, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task. Color may be empty to use the default.
func (c *Client) CreateTask(date time.Time, text, color string) (*model.Task, error) {
	body := map[string]string{
		"date": calendar.DateKey(date),
		"text": text,
	}
	if color != "" {
		body["color"] = color
	}

	resp, err := c.do("POST", "/api/tasks", body)
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := decode(resp, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTaskWithImage creates a task with an attached image file.
func (c *Client) CreateTaskWithImage(date time.Time, text, color, imagePath string) (*model.Task, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("date", calendar.DateKey(date))
	w.WriteField("text", text)
	if color != "" {
		w.WriteField("color", color)
	}
	part, err := w.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.session.ServerURL+"/api/tasks", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	var task model.Task
	if err := decode(resp, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskUpdate names the task fields to change. Nil fields are left
// untouched on the server.
type TaskUpdate struct {
	Date      *string `json:"date,omitempty"`
	Text      *string `json:"text,omitempty"`
	Color     *string `json:"color,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(id int64, update TaskUpdate) (*model.Task, error) {
	resp, err := c.do("PUT", fmt.Sprintf("/api/tasks/%d", id), update)
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := decode(resp, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompleted toggles a task's completed flag.
func (c *Client) SetCompleted(id int64, completed bool) (*model.Task, error) {
	return c.UpdateTask(id, TaskUpdate{Completed: &completed})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(id int64) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/api/tasks/%d", id), nil)
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}

// DuplicateTask copies a task to another day.
func (c *Client) DuplicateTask(id int64, newDate time.Time) (*model.Task, error) {
	resp, err := c.do("POST", fmt.Sprintf("/api/tasks/%d/duplicate", id), map[string]string{
		"newDate": calendar.DateKey(newDate),
	})
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := decode(resp, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ResetTaskColors resets every task's color to the default.
func (c *Client) ResetTaskColors() error {
	resp, err := c.do("PUT", "/api/tasks/reset-colors", nil)
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}

// TaskImage downloads a task's image attachment.
func (c *Client) TaskImage(id int64) ([]byte, error) {
	resp, err := c.do("GET", fmt.Sprintf("/api/tasks/%d/image", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

// DeleteTaskImage removes a task's image attachment.
func (c *Client) DeleteTaskImage(id int64) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/api/tasks/%d/image", id), nil)
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}
