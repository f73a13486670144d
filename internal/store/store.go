// Package store persists users, tasks, and color palettes in a
// relational database. Deployments use Postgres (DATABASE_URL with a
// postgres:// scheme); anything else is treated as a SQLite file
// path, which also backs local development and tests.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned for rows that are absent or not owned
	// by the calling user. The two cases are deliberately
	// indistinguishable so existence of other users' rows never leaks.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

// Store wraps the database connection
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database named by url and runs migrations.
func Open(url string) (*Store, error) {
	dialect := dialectSQLite
	driver := "sqlite"
	dsn := url

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dialect = dialectPostgres
		driver = "postgres"
	} else {
		// SQLite path: make sure the directory exists
		if dir := filepath.Dir(url); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, dialect: dialect}

	if dialect == dialectSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ?-style placeholders to the $n style lib/pq expects.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
