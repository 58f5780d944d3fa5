// Package userspgxstore provides a postgres backed store for users.
package userspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for user database access.
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

// Create inserts a new user row.
func (s *Store) Create(ctx context.Context, nu usersrepo.CreateUser) (usersrepo.User, error) {
	const q = `
	INSERT INTO users
		(user_id, email, password_hash, first_name, last_name, phone, date_of_birth, address_id)
	VALUES
		(@user_id, @email, @password_hash, @first_name, @last_name, @phone, @date_of_birth, @address_id)
	RETURNING *`

	args := pgx.NamedArgs{
		"user_id":       nu.UserID,
		"email":         strings.ToLower(nu.Email),
		"password_hash": nu.PasswordHash,
		"first_name":    nu.FirstName,
		"last_name":     nu.LastName,
		"phone":         nu.Phone,
		"date_of_birth": nu.DateOfBirth,
		"address_id":    nu.AddressID,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	usr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return usr, nil
}

// Update applies the non-nil fields of uu to an existing user row.
func (s *Store) Update(ctx context.Context, userID string, uu usersrepo.UpdateUser) (usersrepo.User, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"user_id": userID}

	if uu.Email != nil {
		sets = append(sets, "email = @email")
		args["email"] = strings.ToLower(*uu.Email)
	}
	if uu.FirstName != nil {
		sets = append(sets, "first_name = @first_name")
		args["first_name"] = *uu.FirstName
	}
	if uu.LastName != nil {
		sets = append(sets, "last_name = @last_name")
		args["last_name"] = *uu.LastName
	}
	if uu.UserType != nil {
		sets = append(sets, "user_type = @user_type")
		args["user_type"] = *uu.UserType
	}
	if uu.Phone != nil {
		sets = append(sets, "phone = @phone")
		args["phone"] = *uu.Phone
	}
	if uu.DateOfBirth != nil {
		sets = append(sets, "date_of_birth = @date_of_birth")
		args["date_of_birth"] = *uu.DateOfBirth
	}
	if uu.AddressID != nil {
		sets = append(sets, "address_id = @address_id")
		args["address_id"] = *uu.AddressID
	}

	q := fmt.Sprintf(`
	UPDATE users SET
		%s
	WHERE user_id = @user_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	usr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return usr, nil
}

// Delete removes a user row.
func (s *Store) Delete(ctx context.Context, userID string) error {
	const q = `
	DELETE FROM users
	WHERE user_id = @user_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"user_id": userID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a user row by primary key.
func (s *Store) QueryByID(ctx context.Context, userID string) (usersrepo.User, error) {
	const q = `
	SELECT * FROM users
	WHERE user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	usr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return usr, nil
}

// QueryByEmail retrieves a user row by email.
func (s *Store) QueryByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	const q = `
	SELECT * FROM users
	WHERE email = @email`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"email": strings.ToLower(email)})
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	usr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersrepo.User])
	if err != nil {
		return usersrepo.User{}, postgresdb.HandlePgError(err)
	}

	return usr, nil
}

// UpdatePasswordHash replaces the password hash for a user row.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID string, hash string) error {
	const q = `
	UPDATE users SET
		password_hash = @password_hash,
		updated_at = now()
	WHERE user_id = @user_id`

	tag, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"user_id":       userID,
		"password_hash": hash,
	})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}

	return nil
}
