package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/model"
)

// TaskFilter narrows ListTasks. Date restricts to one calendar day;
// Year/Month (both set) restrict to one month. Zero value lists all
// owned tasks.
type TaskFilter struct {
	Date  *time.Time
	Year  int
	Month time.Month
}

// ListTasks returns tasks owned by userID, newest filters applied,
// ordered by date then ID.
func (s *Store) ListTasks(ctx context.Context, userID int64, filter TaskFilter) ([]model.Task, error) {
	query := `
		SELECT id, user_id, date, text, color, completed, image, created_at, updated_at
		FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Date != nil {
		query += ` AND date = ?`
		args = append(args, calendar.DateKey(*filter.Date))
	} else if filter.Year != 0 && filter.Month != 0 {
		m := calendar.Month{Year: filter.Year, Month: filter.Month}
		query += ` AND date >= ? AND date < ?`
		args = append(args, calendar.KeyFor(m.Year, m.Month, 1), calendar.KeyFor(m.Next().Year, m.Next().Month, 1))
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask fetches one task owned by userID.
func (s *Store) GetTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, user_id, date, text, color, completed, image, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`),
		taskID, userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// CreateTask inserts a new task for userID. Date is normalized to
// its canonical day; completion always starts false.
func (s *Store) CreateTask(ctx context.Context, userID int64, date time.Time, text, color, image string) (model.Task, error) {
	now := time.Now().UTC()
	day, err := calendar.ParseDateKey(calendar.DateKey(date))
	if err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		UserID:    userID,
		Date:      day,
		Text:      text,
		Color:     color,
		Completed: false,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO tasks (user_id, date, text, color, completed, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		userID, calendar.DateKey(day), text, color, false, image,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	).Scan(&t.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// TaskPatch holds the optional update fields. Nil means keep the
// stored value; concurrent updates resolve last-write-wins at the
// row level.
type TaskPatch struct {
	Date      *time.Time
	Text      *string
	Color     *string
	Completed *bool
	Image     *string
}

// UpdateTask applies a partial update to a task owned by userID and
// returns the stored row.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID int64, patch TaskPatch) (model.Task, error) {
	t, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Date != nil {
		day, err := calendar.ParseDateKey(calendar.DateKey(*patch.Date))
		if err != nil {
			return model.Task{}, err
		}
		t.Date = day
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Image != nil {
		t.Image = *patch.Image
	}
	t.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, s.rebind(`
		UPDATE tasks SET date = ?, text = ?, color = ?, completed = ?, image = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		calendar.DateKey(t.Date), t.Text, t.Color, t.Completed, t.Image,
		t.UpdatedAt.Format(time.RFC3339), taskID, userID,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

// DeleteTask removes a task owned by userID. Any attached image file
// is left in place.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		DELETE FROM tasks WHERE id = ? AND user_id = ?`),
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearTaskImage removes the image reference from a task owned by
// userID.
func (s *Store) ClearTaskImage(ctx context.Context, userID, taskID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE tasks SET image = '', updated_at = ? WHERE id = ? AND user_id = ?`),
		time.Now().UTC().Format(time.RFC3339), taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear task image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetTaskColors bulk-sets every task owned by userID to the
// default color. Idempotent.
func (s *Store) ResetTaskColors(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE tasks SET color = ?, updated_at = ? WHERE user_id = ?`),
		model.DefaultTaskColor, time.Now().UTC().Format(time.RFC3339), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset task colors: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var date, createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.UserID, &date, &t.Text, &t.Color, &t.Completed, &t.Image, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Date, err = calendar.ParseDateKey(date)
	if err != nil {
		return model.Task{}, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}
