package models

import "time"

type Comment struct {
	ID          string
	TaskID      string
	Text        string
	Commentator User
	// Timestamp is server-assigned on creation and
	// refreshed whenever the text is edited.
	Timestamp time.Time
}
