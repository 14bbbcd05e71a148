package models

// Task is a single entry on a user's task list. UserID is fixed at creation.
type Task struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
