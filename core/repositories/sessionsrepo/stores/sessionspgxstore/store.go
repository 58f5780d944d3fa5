// Package sessionspgxstore provides a postgres backed store for sessions.
package sessionspgxstore

import (
	"context"

	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for session database access.
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

// Create inserts a new session row.
func (s *Store) Create(ctx context.Context, ns sessionsrepo.CreateSession) (sessionsrepo.Session, error) {
	const q = `
	INSERT INTO user_sessions
		(session_id, user_id, token, expires_at)
	VALUES
		(@session_id, @user_id, @token, @expires_at)
	RETURNING *`

	args := pgx.NamedArgs{
		"session_id": ns.SessionID,
		"user_id":    ns.UserID,
		"token":      ns.Token,
		"expires_at": ns.ExpiresAt,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}

	ses, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[sessionsrepo.Session])
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}

	return ses, nil
}

// QueryByToken retrieves a session row by its token.
func (s *Store) QueryByToken(ctx context.Context, token string) (sessionsrepo.Session, error) {
	const q = `
	SELECT * FROM user_sessions
	WHERE token = @token`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"token": token})
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}

	ses, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[sessionsrepo.Session])
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}

	return ses, nil
}

// DeleteByToken removes a session row by its token.
func (s *Store) DeleteByToken(ctx context.Context, token string) error {
	const q = `
	DELETE FROM user_sessions
	WHERE token = @token`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"token": token}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// DeleteByUser removes all session rows for a user.
func (s *Store) DeleteByUser(ctx context.Context, userID string) error {
	const q = `
	DELETE FROM user_sessions
	WHERE user_id = @user_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"user_id": userID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// DeleteExpired removes session rows past their expiry.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `
	DELETE FROM user_sessions
	WHERE expires_at < now()`

	tag, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q)
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}

	return tag.RowsAffected(), nil
}
