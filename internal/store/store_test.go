package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/daygrid/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "daygrid.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, email string) model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), "tester", email, "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	if !u.Verified {
		t.Fatal("new users should be marked verified")
	}

	_, err := s.CreateUser(ctx, "other", "a@example.com", "hash2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := createTestUser(t, s, "a@example.com")

	u, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if u.ID != created.ID || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := s.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserProfilePartial(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")

	name := "renamed"
	updated, err := s.UpdateUserProfile(ctx, u.ID, UserPatch{Username: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "renamed" {
		t.Fatalf("username not updated: %+v", updated)
	}
	if updated.Email != "a@example.com" {
		t.Fatalf("email should be unchanged, got %s", updated.Email)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	task, err := s.CreateTask(ctx, u.ID, day, "walk dog", "", "")
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if _, err := s.CreateColor(ctx, u.ID, "sea", "#4ECDC4"); err != nil {
		t.Fatalf("create color failed: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}

	if _, err := s.GetTask(ctx, u.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("task should cascade with user, got %v", err)
	}
	colors, err := s.ListColors(ctx, u.ID)
	if err != nil {
		t.Fatalf("list colors failed: %v", err)
	}
	if len(colors) != 0 {
		t.Fatalf("colors should cascade with user, got %d", len(colors))
	}
}

func TestTaskDateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")

	// Creating with a non-UTC timestamp still lands on the UTC day.
	loc := time.FixedZone("UTC+9", 9*3600)
	created, err := s.CreateTask(ctx, u.ID, time.Date(2024, 3, 5, 8, 0, 0, 0, loc), "X", "", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Completed {
		t.Fatal("new tasks start incomplete")
	}

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // 08:00 UTC+9 is 23:00 UTC the day before
	tasks, err := s.ListTasks(ctx, u.ID, TaskFilter{Date: &day})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("expected exactly the created task, got %+v", tasks)
	}
	if !tasks[0].Date.Equal(day) {
		t.Fatalf("expected midnight UTC %v, got %v", day, tasks[0].Date)
	}
}

func TestListTasksMonthFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	for _, d := range []time.Time{
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := s.CreateTask(ctx, u.ID, d, "t", "", ""); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	tasks, err := s.ListTasks(ctx, u.ID, TaskFilter{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks in March, got %d", len(tasks))
	}
}

func TestTasksAreOwnerScoped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice@example.com")
	bob := createTestUser(t, s, "bob@example.com")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	task, err := s.CreateTask(ctx, alice.ID, day, "secret", "", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := s.GetTask(ctx, bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}
	text := "hacked"
	if _, err := s.UpdateTask(ctx, bob.ID, task.ID, TaskPatch{Text: &text}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign update, got %v", err)
	}
	if err := s.DeleteTask(ctx, bob.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign delete, got %v", err)
	}

	tasks, err := s.ListTasks(ctx, bob.ID, TaskFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("bob should see no tasks, got %d", len(tasks))
	}
}

func TestUpdateTaskPartialFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	task, err := s.CreateTask(ctx, u.ID, day, "original", "#FF0000", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	done := true
	updated, err := s.UpdateTask(ctx, u.ID, task.ID, TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Completed {
		t.Fatal("completed should flip to true")
	}
	if updated.Text != "original" || updated.Color != "#FF0000" || !updated.Date.Equal(day) {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// A second partial update keeps the flipped flag.
	text := "rewritten"
	updated, err = s.UpdateTask(ctx, u.ID, task.ID, TaskPatch{Text: &text})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if !updated.Completed || updated.Text != "rewritten" {
		t.Fatalf("unexpected state after second update: %+v", updated)
	}
}

func TestResetTaskColorsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, color := range []string{"#111111", "#222222", ""} {
		if _, err := s.CreateTask(ctx, u.ID, day, "t", color, ""); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		if err := s.ResetTaskColors(ctx, u.ID); err != nil {
			t.Fatalf("reset %d failed: %v", i+1, err)
		}
		tasks, err := s.ListTasks(ctx, u.ID, TaskFilter{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		for _, task := range tasks {
			if task.Color != model.DefaultTaskColor {
				t.Fatalf("reset %d: task %d has color %q", i+1, task.ID, task.Color)
			}
		}
	}
}

func TestClearTaskImage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@example.com")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	task, err := s.CreateTask(ctx, u.ID, day, "t", "", "uploads/123-cat.png")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.ClearTaskImage(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	got, err := s.GetTask(ctx, u.ID, task.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.HasImage() {
		t.Fatalf("image reference should be cleared, got %q", got.Image)
	}

	if err := s.ClearTaskImage(ctx, u.ID, task.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestColorCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice@example.com")
	bob := createTestUser(t, s, "bob@example.com")

	c1, err := s.CreateColor(ctx, alice.ID, "sea", "#4ECDC4")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// No dedup: the same name/hex may be stored twice.
	if _, err := s.CreateColor(ctx, alice.ID, "sea", "#4ECDC4"); err != nil {
		t.Fatalf("duplicate create should succeed: %v", err)
	}

	updated, err := s.UpdateColor(ctx, alice.ID, c1.ID, "ocean", "#0000FF")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "ocean" || updated.Hex != "#0000FF" {
		t.Fatalf("unexpected color: %+v", updated)
	}

	if _, err := s.UpdateColor(ctx, bob.ID, c1.ID, "x", "#000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign color, got %v", err)
	}
	if err := s.DeleteColor(ctx, bob.ID, c1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	if err := s.DeleteColor(ctx, alice.ID, c1.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	colors, err := s.ListColors(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(colors) != 1 {
		t.Fatalf("expected 1 remaining color, got %d", len(colors))
	}
}
