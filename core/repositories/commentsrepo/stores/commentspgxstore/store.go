// Package commentspgxstore provides a postgres backed store for comments.
package commentspgxstore

import (
	"context"

	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for comment database access.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// Create inserts a new comment row.
func (s *Store) Create(ctx context.Context, nc commentsrepo.CreateComment) (commentsrepo.Comment, error) {
	const q = `
	INSERT INTO comments
		(comment_id, task_id, author_id, content)
	VALUES
		(@comment_id, @task_id, @author_id, @content)
	RETURNING *`

	args := pgx.NamedArgs{
		"comment_id": nc.CommentID,
		"task_id":    nc.TaskID,
		"author_id":  nc.AuthorID,
		"content":    nc.Content,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	cmt, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[commentsrepo.Comment])
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	return cmt, nil
}

// Update applies the non-nil fields of uc to an existing comment row.
func (s *Store) Update(ctx context.Context, commentID string, uc commentsrepo.UpdateComment) (commentsrepo.Comment, error) {
	const q = `
	UPDATE comments SET
		content = COALESCE(@content, content),
		updated_at = now()
	WHERE comment_id = @comment_id
	RETURNING *`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"comment_id": commentID,
		"content":    uc.Content,
	})
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	cmt, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[commentsrepo.Comment])
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	return cmt, nil
}

// Delete removes a comment row.
func (s *Store) Delete(ctx context.Context, commentID string) error {
	const q = `
	DELETE FROM comments
	WHERE comment_id = @comment_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"comment_id": commentID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a comment row by primary key.
func (s *Store) QueryByID(ctx context.Context, commentID string) (commentsrepo.Comment, error) {
	const q = `
	SELECT * FROM comments
	WHERE comment_id = @comment_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"comment_id": commentID})
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	cmt, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[commentsrepo.Comment])
	if err != nil {
		return commentsrepo.Comment{}, postgresdb.HandlePgError(err)
	}

	return cmt, nil
}

// QueryByTask retrieves the comment rows on a task in posting order.
func (s *Store) QueryByTask(ctx context.Context, taskID string) ([]commentsrepo.Comment, error) {
	const q = `
	SELECT * FROM comments
	WHERE task_id = @task_id
	ORDER BY created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	cmts, err := pgx.CollectRows(rows, pgx.RowToStructByName[commentsrepo.Comment])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return cmts, nil
}
