package store

import (
	"context"
	"fmt"

	"github.com/existflow/daygrid/internal/model"
)

// ListColors returns the palette entries owned by userID.
func (s *Store) ListColors(ctx context.Context, userID int64) ([]model.UserColor, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, user_id, name, hex FROM user_colors WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	defer rows.Close()

	colors := []model.UserColor{}
	for rows.Next() {
		var c model.UserColor
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Hex); err != nil {
			return nil, fmt.Errorf("failed to scan color: %w", err)
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

// CreateColor stores a new palette entry. Duplicates are permitted.
func (s *Store) CreateColor(ctx context.Context, userID int64, name, hex string) (model.UserColor, error) {
	c := model.UserColor{UserID: userID, Name: name, Hex: hex}

	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO user_colors (user_id, name, hex) VALUES (?, ?, ?) RETURNING id`),
		userID, name, hex,
	).Scan(&c.ID)
	if err != nil {
		return model.UserColor{}, fmt.Errorf("failed to create color: %w", err)
	}

	return c, nil
}

// UpdateColor overwrites both fields of a palette entry owned by
// userID.
func (s *Store) UpdateColor(ctx context.Context, userID, colorID int64, name, hex string) (model.UserColor, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE user_colors SET name = ?, hex = ? WHERE id = ? AND user_id = ?`),
		name, hex, colorID, userID,
	)
	if err != nil {
		return model.UserColor{}, fmt.Errorf("failed to update color: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.UserColor{}, ErrNotFound
	}

	return model.UserColor{ID: colorID, UserID: userID, Name: name, Hex: hex}, nil
}

// DeleteColor removes a palette entry owned by userID.
func (s *Store) DeleteColor(ctx context.Context, userID, colorID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		DELETE FROM user_colors WHERE id = ? AND user_id = ?`),
		colorID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
