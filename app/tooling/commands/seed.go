// Package commands holds the operational commands behind the tooling
// binary.
package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/sdk/logger"
)

// CreateAdmin provisions an ADMIN account. Admin is the one role that never
// goes through onboarding, so this is the only way one comes to exist.
// Usage: tooling create-admin <email> <password> <first> <last>
func CreateAdmin(ctx context.Context, log *logger.Logger, args []string, pool *pgxpool.Pool) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: create-admin <email> <password> <first> <last>")
	}
	email, password, first, last := args[0], args[1], args[2], args[3]

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	const q = `
	INSERT INTO users
		(email, password_hash, first_name, last_name, user_type)
	VALUES
		(@email, @password_hash, @first_name, @last_name, @user_type)
	ON CONFLICT (email) DO NOTHING
	RETURNING user_id`

	rows, err := pool.Query(ctx, q, pgx.NamedArgs{
		"email":         email,
		"password_hash": string(hash),
		"first_name":    first,
		"last_name":     last,
		"user_type":     usersrepo.TypeAdmin,
	})
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}

	userID, err := pgx.CollectOneRow(rows, pgx.RowTo[string])
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("email %s already registered", email)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	log.InfoContext(ctx, "admin created", "user_id", userID, "email", email)
	return nil
}
