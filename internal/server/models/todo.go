package models

import "time"

// Column limits of the todo table, in characters.
const (
	MaxTitleLen   = 200
	MaxContentLen = 500
	MaxTimeLen    = 50
)

// Todo is a single task owned by a user. FromTime and ToTime are free-form
// strings and are never parsed.
type Todo struct {
	Sno         int64     `json:"sno"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	DateCreated time.Time `json:"date_created"`
	FromTime    string    `json:"from_time"`
	ToTime      string    `json:"to_time"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
}

// TodoFilter narrows a todo listing. Zero values mean "no restriction":
// UserID 0 spans every user, a nil Completed spans both states and a zero
// From/To leaves the creation date unbounded. The date range is half-open.
type TodoFilter struct {
	UserID    int64
	Completed *bool
	From      time.Time
	To        time.Time
}
