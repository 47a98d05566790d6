package note

import "time"

// Note is a short text note owned by exactly one user.
type Note struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Input holds the editable fields of a note.
type Input struct {
	Title   string
	Content string
}
