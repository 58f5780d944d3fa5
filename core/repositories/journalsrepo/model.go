package journalsrepo

import "time"

// Entry is a dated journal entry written by or about a patient.
type Entry struct {
	EntryID   string    `db:"entry_id" json:"entry_id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Mood      *string   `db:"mood" json:"mood"`
	EntryDate time.Time `db:"entry_date" json:"entry_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateEntry contains fields for creating a new journal entry. Tags are
// written alongside the entry.
type CreateEntry struct {
	EntryID   string     `json:"-"`
	PatientID string     `json:"patient_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Mood      *string    `json:"mood"`
	EntryDate *time.Time `json:"entry_date"`
	Tags      []string   `json:"tags"`
}

// UpdateEntry contains fields for updating an existing journal entry.
type UpdateEntry struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Mood      *string    `json:"mood"`
	EntryDate *time.Time `json:"entry_date"`
}

// Tag is a label attached to a journal entry.
type Tag struct {
	TagID     string    `db:"tag_id" json:"tag_id"`
	EntryID   string    `db:"entry_id" json:"entry_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
