// Package institutionspgxstore provides a postgres backed store for institutions.
package institutionspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/institutionsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for institution database access.
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

// Create inserts a new institution row.
func (s *Store) Create(ctx context.Context, ni institutionsrepo.CreateInstitution) (institutionsrepo.Institution, error) {
	const q = `
	INSERT INTO medical_institutions
		(institution_id, name, institution_type, phone, address_id)
	VALUES
		(@institution_id, @name, @institution_type, @phone, @address_id)
	RETURNING *`

	args := pgx.NamedArgs{
		"institution_id":   ni.InstitutionID,
		"name":             ni.Name,
		"institution_type": ni.InstitutionType,
		"phone":            ni.Phone,
		"address_id":       ni.AddressID,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	inst, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[institutionsrepo.Institution])
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	return inst, nil
}

// Update applies the non-nil fields of ui to an existing institution row.
func (s *Store) Update(ctx context.Context, institutionID string, ui institutionsrepo.UpdateInstitution) (institutionsrepo.Institution, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"institution_id": institutionID}

	if ui.Name != nil {
		sets = append(sets, "name = @name")
		args["name"] = *ui.Name
	}
	if ui.InstitutionType != nil {
		sets = append(sets, "institution_type = @institution_type")
		args["institution_type"] = *ui.InstitutionType
	}
	if ui.Phone != nil {
		sets = append(sets, "phone = @phone")
		args["phone"] = *ui.Phone
	}
	if ui.AddressID != nil {
		sets = append(sets, "address_id = @address_id")
		args["address_id"] = *ui.AddressID
	}

	q := fmt.Sprintf(`
	UPDATE medical_institutions SET
		%s
	WHERE institution_id = @institution_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	inst, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[institutionsrepo.Institution])
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	return inst, nil
}

// Delete removes an institution row.
func (s *Store) Delete(ctx context.Context, institutionID string) error {
	const q = `
	DELETE FROM medical_institutions
	WHERE institution_id = @institution_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"institution_id": institutionID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves an institution row by primary key.
func (s *Store) QueryByID(ctx context.Context, institutionID string) (institutionsrepo.Institution, error) {
	const q = `
	SELECT * FROM medical_institutions
	WHERE institution_id = @institution_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"institution_id": institutionID})
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	inst, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[institutionsrepo.Institution])
	if err != nil {
		return institutionsrepo.Institution{}, postgresdb.HandlePgError(err)
	}

	return inst, nil
}

// Query retrieves all institution rows.
func (s *Store) Query(ctx context.Context) ([]institutionsrepo.Institution, error) {
	const q = `
	SELECT * FROM medical_institutions
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	insts, err := pgx.CollectRows(rows, pgx.RowToStructByName[institutionsrepo.Institution])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return insts, nil
}

// QueryCancerTypes retrieves all cancer type rows.
func (s *Store) QueryCancerTypes(ctx context.Context) ([]institutionsrepo.CancerType, error) {
	const q = `
	SELECT * FROM cancer_types
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	cts, err := pgx.CollectRows(rows, pgx.RowToStructByName[institutionsrepo.CancerType])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return cts, nil
}

// QuerySpecializations retrieves all specialization rows.
func (s *Store) QuerySpecializations(ctx context.Context) ([]institutionsrepo.Specialization, error) {
	const q = `
	SELECT * FROM specializations
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	sps, err := pgx.CollectRows(rows, pgx.RowToStructByName[institutionsrepo.Specialization])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return sps, nil
}
