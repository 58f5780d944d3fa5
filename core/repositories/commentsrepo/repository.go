// Package commentsrepo provides business access to task comments.
package commentsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for comment persistence operations.
type Storer interface {
	Create(ctx context.Context, nc CreateComment) (Comment, error)
	Update(ctx context.Context, commentID string, uc UpdateComment) (Comment, error)
	Delete(ctx context.Context, commentID string) error
	QueryByID(ctx context.Context, commentID string) (Comment, error)
	QueryByTask(ctx context.Context, taskID string) ([]Comment, error)
}

// Repository manages the set of APIs for comment access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a comment repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new comment to a task.
func (r *Repository) Create(ctx context.Context, nc CreateComment) (Comment, error) {
	nc.CommentID = uuid.NewString()

	cmt, err := r.storer.Create(ctx, nc)
	if err != nil {
		return Comment{}, fmt.Errorf("create comment: %w", err)
	}

	return cmt, nil
}

// Update modifies an existing comment.
func (r *Repository) Update(ctx context.Context, commentID string, uc UpdateComment) (Comment, error) {
	cmt, err := r.storer.Update(ctx, commentID, uc)
	if err != nil {
		return Comment{}, fmt.Errorf("update comment[%s]: %w", commentID, err)
	}

	return cmt, nil
}

// Delete removes a comment from the system.
func (r *Repository) Delete(ctx context.Context, commentID string) error {
	if err := r.storer.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment[%s]: %w", commentID, err)
	}

	return nil
}

// QueryByID retrieves a comment by its id.
func (r *Repository) QueryByID(ctx context.Context, commentID string) (Comment, error) {
	cmt, err := r.storer.QueryByID(ctx, commentID)
	if err != nil {
		return Comment{}, fmt.Errorf("query comment[%s]: %w", commentID, err)
	}

	return cmt, nil
}

// QueryByTask retrieves the comments on a task in posting order.
func (r *Repository) QueryByTask(ctx context.Context, taskID string) ([]Comment, error) {
	cmts, err := r.storer.QueryByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("query comments task[%s]: %w", taskID, err)
	}

	return cmts, nil
}
