package model

import "time"

// Todo rows belong to exactly one user; user_id is the only link back.
type Todo struct {
	ID          int       `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Completed   bool      `db:"completed"`
	UserID      int       `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
