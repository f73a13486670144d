package store

import "fmt"

// migrate runs all database migrations
func (s *Store) migrate() error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialectPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	migrations := []string{
		fmt.Sprintf(migrationUsers, pk),
		fmt.Sprintf(migrationTasks, pk),
		fmt.Sprintf(migrationUserColors, pk),
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// Dates are stored as canonical YYYY-MM-DD keys; timestamps as
// RFC3339 text. Both compare correctly as strings.

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id %s,
    username TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    verified BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id %s,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    text TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    image TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(user_id, date);
`

const migrationUserColors = `
CREATE TABLE IF NOT EXISTS user_colors (
    id %s,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    hex TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_colors_user ON user_colors(user_id);
`
