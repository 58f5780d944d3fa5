// Package addressespgxstore provides a postgres backed store for addresses.
package addressespgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/addressesrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for address database access.
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

// Create inserts a new address row.
func (s *Store) Create(ctx context.Context, na addressesrepo.CreateAddress) (addressesrepo.Address, error) {
	const q = `
	INSERT INTO addresses
		(address_id, line1, line2, city, state, postal_code, country)
	VALUES
		(@address_id, @line1, @line2, @city, @state, @postal_code, @country)
	RETURNING *`

	args := pgx.NamedArgs{
		"address_id":  na.AddressID,
		"line1":       na.Line1,
		"line2":       na.Line2,
		"city":        na.City,
		"state":       na.State,
		"postal_code": na.PostalCode,
		"country":     na.Country,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	adr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[addressesrepo.Address])
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	return adr, nil
}

// Update applies the non-nil fields of ua to an existing address row.
func (s *Store) Update(ctx context.Context, addressID string, ua addressesrepo.UpdateAddress) (addressesrepo.Address, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"address_id": addressID}

	if ua.Line1 != nil {
		sets = append(sets, "line1 = @line1")
		args["line1"] = *ua.Line1
	}
	if ua.Line2 != nil {
		sets = append(sets, "line2 = @line2")
		args["line2"] = *ua.Line2
	}
	if ua.City != nil {
		sets = append(sets, "city = @city")
		args["city"] = *ua.City
	}
	if ua.State != nil {
		sets = append(sets, "state = @state")
		args["state"] = *ua.State
	}
	if ua.PostalCode != nil {
		sets = append(sets, "postal_code = @postal_code")
		args["postal_code"] = *ua.PostalCode
	}
	if ua.Country != nil {
		sets = append(sets, "country = @country")
		args["country"] = *ua.Country
	}

	q := fmt.Sprintf(`
	UPDATE addresses SET
		%s
	WHERE address_id = @address_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	adr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[addressesrepo.Address])
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	return adr, nil
}

// Delete removes an address row.
func (s *Store) Delete(ctx context.Context, addressID string) error {
	const q = `
	DELETE FROM addresses
	WHERE address_id = @address_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"address_id": addressID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves an address row by primary key.
func (s *Store) QueryByID(ctx context.Context, addressID string) (addressesrepo.Address, error) {
	const q = `
	SELECT * FROM addresses
	WHERE address_id = @address_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"address_id": addressID})
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	adr, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[addressesrepo.Address])
	if err != nil {
		return addressesrepo.Address{}, postgresdb.HandlePgError(err)
	}

	return adr, nil
}
