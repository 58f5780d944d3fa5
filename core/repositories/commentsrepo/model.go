package commentsrepo

import "time"

// Comment is a note left on a task by a list member.
type Comment struct {
	CommentID string    `db:"comment_id" json:"comment_id"`
	TaskID    string    `db:"task_id" json:"task_id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateComment contains fields for creating a new comment.
type CreateComment struct {
	CommentID string `json:"-"`
	TaskID    string `json:"-"`
	AuthorID  string `json:"-"`
	Content   string `json:"content"`
}

// UpdateComment contains fields for updating an existing comment.
type UpdateComment struct {
	Content *string `json:"content"`
}
