package server

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/existflow/daygrid/internal/model"
)

func TestCreateTaskRequiresDateAndText(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	for i, body := range []map[string]any{
		{"text": "no date"},
		{"date": "2024-03-05"},
		{"date": "2024-03-05", "text": ""},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/tasks", tok, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestCreateAndListByDate(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	created := createTask(t, s, tok, "2024-03-05", "X")
	if created.Completed {
		t.Fatal("new tasks start incomplete")
	}
	createTask(t, s, tok, "2024-03-06", "Y")

	rec := doJSON(t, s, http.MethodGet, "/api/tasks?date=2024-03-05", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tasks := decode[[]model.Task](t, rec)
	if len(tasks) != 1 || tasks[0].ID != created.ID || tasks[0].Text != "X" {
		t.Fatalf("expected exactly task X, got %+v", tasks)
	}

	// RFC3339 timestamps normalize to the same UTC day.
	rec = doJSON(t, s, http.MethodGet, "/api/tasks?date=2024-03-05T10:30:00%2B02:00", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if tasks := decode[[]model.Task](t, rec); len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("timestamp filter should hit the same day, got %+v", tasks)
	}
}

func TestListByMonth(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	createTask(t, s, tok, "2024-02-29", "feb")
	createTask(t, s, tok, "2024-03-01", "mar1")
	createTask(t, s, tok, "2024-03-31", "mar31")

	rec := doJSON(t, s, http.MethodGet, "/api/tasks?year=2024&month=3", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tasks := decode[[]model.Task](t, rec)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 March tasks, got %d", len(tasks))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/tasks?year=2024&month=13", tok, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad month, got %d", rec.Code)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")
	task := createTask(t, s, tok, "2024-03-05", "original")

	rec := doJSON(t, s, http.MethodPut, "/api/tasks/"+itoa(task.ID), tok, map[string]any{
		"completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Task](t, rec)
	if !updated.Completed {
		t.Fatal("completed should flip")
	}
	if updated.Text != "original" {
		t.Fatalf("text should be unchanged, got %q", updated.Text)
	}
	if got := updated.Date.UTC().Format("2006-01-02"); got != "2024-03-05" {
		t.Fatalf("date should be unchanged, got %s", got)
	}
}

func TestUpdateTaskImageURLWithoutFile(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")
	task := createTask(t, s, tok, "2024-03-05", "pic")

	rec := doJSON(t, s, http.MethodPut, "/api/tasks/"+itoa(task.ID), tok, map[string]any{
		"image": "https://example.com/cat.png",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.Task](t, rec); got.Image != "https://example.com/cat.png" {
		t.Fatalf("image reference not replaced: %q", got.Image)
	}
}

func TestTaskOwnershipScoping(t *testing.T) {
	s := newTestServer(t)
	aliceTok := registerAndLogin(t, s, "alice@example.com")
	bobTok := registerAndLogin(t, s, "bob@example.com")

	task := createTask(t, s, aliceTok, "2024-03-05", "secret")
	path := "/api/tasks/" + itoa(task.ID)

	if rec := doJSON(t, s, http.MethodPut, path, bobTok, map[string]any{"text": "x"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on foreign update, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, path, bobTok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on foreign delete, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, path+"/duplicate", bobTok, map[string]string{"newDate": "2024-03-06"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on foreign duplicate, got %d", rec.Code)
	}
	rec := doJSON(t, s, http.MethodGet, "/api/tasks", bobTok, nil)
	if tasks := decode[[]model.Task](t, rec); len(tasks) != 0 {
		t.Fatalf("bob should see no tasks, got %+v", tasks)
	}
}

func TestDuplicateTask(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	src := createTask(t, s, tok, "2024-03-05", "copy me")
	done := true
	doJSON(t, s, http.MethodPut, "/api/tasks/"+itoa(src.ID), tok, map[string]any{"completed": done, "color": "#FF0000"})

	rec := doJSON(t, s, http.MethodPost, "/api/tasks/"+itoa(src.ID)+"/duplicate", tok, map[string]string{
		"newDate": "2024-04-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	dup := decode[model.Task](t, rec)
	if dup.Text != "copy me" || dup.Color != "#FF0000" {
		t.Fatalf("text/color should copy: %+v", dup)
	}
	if dup.Completed || dup.Image != "" {
		t.Fatalf("copies start incomplete with no image: %+v", dup)
	}
	if got := dup.Date.UTC().Format("2006-01-02"); got != "2024-04-01" {
		t.Fatalf("expected new date, got %s", got)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/tasks/"+itoa(src.ID)+"/duplicate", tok, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing newDate, got %d", rec.Code)
	}
}

func TestResetColors(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	task := createTask(t, s, tok, "2024-03-05", "colored")
	doJSON(t, s, http.MethodPut, "/api/tasks/"+itoa(task.ID), tok, map[string]any{"color": "#123456"})

	for i := 0; i < 2; i++ {
		rec := doJSON(t, s, http.MethodPut, "/api/tasks/reset-colors", tok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("reset %d: expected 200, got %d", i+1, rec.Code)
		}
		rec = doJSON(t, s, http.MethodGet, "/api/tasks", tok, nil)
		for _, got := range decode[[]model.Task](t, rec) {
			if got.Color != model.DefaultTaskColor {
				t.Fatalf("reset %d: task %d color %q", i+1, got.ID, got.Color)
			}
		}
	}
}

func TestImageUploadValidation(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	// 6 MiB png: too large.
	body, ct := multipartTask(t, map[string]string{"date": "2024-03-05", "text": "big"},
		"big.png", bytes.Repeat([]byte{0xAB}, 6<<20))
	rec := doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized image, got %d: %s", rec.Code, rec.Body.String())
	}

	// Wrong file type.
	body, ct = multipartTask(t, map[string]string{"date": "2024-03-05", "text": "txt"},
		"notes.txt", []byte("hello"))
	rec = doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for .txt upload, got %d", rec.Code)
	}

	// 4 MiB png: accepted.
	body, ct = multipartTask(t, map[string]string{"date": "2024-03-05", "text": "ok"},
		"photo.png", bytes.Repeat([]byte{0xCD}, 4<<20))
	rec = doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for 4 MiB png, got %d: %s", rec.Code, rec.Body.String())
	}
	task := decode[model.Task](t, rec)
	if !strings.HasPrefix(task.Image, "uploads/") {
		t.Fatalf("expected managed upload path, got %q", task.Image)
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(task.Image))); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
}

func TestImageDownloadAndDelete(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	content := []byte("fake image bytes")
	body, ct := multipartTask(t, map[string]string{"date": "2024-03-05", "text": "pic"},
		"cat.jpg", content)
	rec := doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	task := decode[model.Task](t, rec)
	path := "/api/tasks/" + itoa(task.ID) + "/image"

	rec = doJSON(t, s, http.MethodGet, path, tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition, got %q", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Fatal("downloaded bytes differ from upload")
	}

	rec = doJSON(t, s, http.MethodDelete, path, tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(task.Image))); !os.IsNotExist(err) {
		t.Fatal("file should be removed from disk")
	}

	// Reference cleared: both image routes now 404.
	if rec := doJSON(t, s, http.MethodGet, path, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after image delete, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, path, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeat delete, got %d", rec.Code)
	}
}

func TestImageRoutesForTaskWithoutImage(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")
	task := createTask(t, s, tok, "2024-03-05", "plain")

	path := "/api/tasks/" + itoa(task.ID) + "/image"
	if rec := doJSON(t, s, http.MethodGet, path, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, path, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestImageReplaceDeletesOldFile(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	body, ct := multipartTask(t, map[string]string{"date": "2024-03-05", "text": "pic"},
		"one.jpg", []byte("first"))
	rec := doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	task := decode[model.Task](t, rec)
	oldFile := filepath.Join(s.uploadDir, filepath.Base(task.Image))

	body, ct = multipartTask(t, nil, "two.png", []byte("second"))
	rec = doMultipart(t, s, http.MethodPut, "/api/tasks/"+itoa(task.ID), tok, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Task](t, rec)
	if updated.Image == task.Image {
		t.Fatal("image reference should change")
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Fatal("prior upload should be deleted on replace")
	}
}

func TestDeleteTaskKeepsImageFile(t *testing.T) {
	s := newTestServer(t)
	tok := registerAndLogin(t, s, "alice@example.com")

	body, ct := multipartTask(t, map[string]string{"date": "2024-03-05", "text": "pic"},
		"keep.gif", []byte("gif bytes"))
	rec := doMultipart(t, s, http.MethodPost, "/api/tasks", tok, body, ct)
	task := decode[model.Task](t, rec)
	file := filepath.Join(s.uploadDir, filepath.Base(task.Image))

	rec = doJSON(t, s, http.MethodDelete, "/api/tasks/"+itoa(task.ID), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("row delete must not remove the image file: %v", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
