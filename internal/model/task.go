package model

import "time"

// DefaultTaskColor is the color applied by the bulk color reset.
const DefaultTaskColor = "#D1D5DB"

// Task represents a single calendar entry. Date carries date-only
// semantics: it is always midnight UTC, and bucketing uses UTC fields.
type Task struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	Color     string    `json:"color,omitempty"`
	Completed bool      `json:"completed"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasImage returns true if the task carries an image reference.
func (t *Task) HasImage() bool {
	return t.Image != ""
}

// UserColor is a user-defined palette entry. Duplicate names and hex
// values are allowed.
type UserColor struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Hex    string `json:"hex"`
}
