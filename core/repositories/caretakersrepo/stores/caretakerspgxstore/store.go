// Package caretakerspgxstore provides a postgres backed store for caretaker profiles.
package caretakerspgxstore

import (
	"context"

	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for caretaker database access.
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

// Create inserts a new caretaker row.
func (s *Store) Create(ctx context.Context, nc caretakersrepo.CreateCaretaker) (caretakersrepo.Caretaker, error) {
	const q = `
	INSERT INTO caretakers
		(caretaker_id, user_id, relationship)
	VALUES
		(@caretaker_id, @user_id, @relationship)
	RETURNING *`

	args := pgx.NamedArgs{
		"caretaker_id": nc.CaretakerID,
		"user_id":      nc.UserID,
		"relationship": nc.Relationship,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	ct, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[caretakersrepo.Caretaker])
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	return ct, nil
}

// Update applies the non-nil fields of uc to an existing caretaker row.
func (s *Store) Update(ctx context.Context, caretakerID string, uc caretakersrepo.UpdateCaretaker) (caretakersrepo.Caretaker, error) {
	const q = `
	UPDATE caretakers SET
		relationship = COALESCE(@relationship, relationship),
		updated_at = now()
	WHERE caretaker_id = @caretaker_id
	RETURNING *`

	args := pgx.NamedArgs{
		"caretaker_id": caretakerID,
		"relationship": uc.Relationship,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	ct, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[caretakersrepo.Caretaker])
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	return ct, nil
}

// Delete removes a caretaker row.
func (s *Store) Delete(ctx context.Context, caretakerID string) error {
	const q = `
	DELETE FROM caretakers
	WHERE caretaker_id = @caretaker_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"caretaker_id": caretakerID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a caretaker row by primary key.
func (s *Store) QueryByID(ctx context.Context, caretakerID string) (caretakersrepo.Caretaker, error) {
	const q = `
	SELECT * FROM caretakers
	WHERE caretaker_id = @caretaker_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"caretaker_id": caretakerID})
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	ct, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[caretakersrepo.Caretaker])
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	return ct, nil
}

// QueryByUserID retrieves a caretaker row by owning user.
func (s *Store) QueryByUserID(ctx context.Context, userID string) (caretakersrepo.Caretaker, error) {
	const q = `
	SELECT * FROM caretakers
	WHERE user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	ct, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[caretakersrepo.Caretaker])
	if err != nil {
		return caretakersrepo.Caretaker{}, postgresdb.HandlePgError(err)
	}

	return ct, nil
}
