package caretakersrepo

import "time"

// Caretaker is the main entity type.
type Caretaker struct {
	CaretakerID  string    `db:"caretaker_id" json:"caretaker_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Relationship *string   `db:"relationship" json:"relationship"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCaretaker contains fields for creating a new caretaker profile.
type CreateCaretaker struct {
	CaretakerID  string  `json:"-"`
	UserID       string  `json:"user_id"`
	Relationship *string `json:"relationship"`
}

// UpdateCaretaker contains fields for updating an existing caretaker profile.
type UpdateCaretaker struct {
	Relationship *string `json:"relationship"`
}
