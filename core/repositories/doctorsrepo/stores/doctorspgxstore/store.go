// Package doctorspgxstore provides a postgres backed store for doctor profiles.
package doctorspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for doctor database access.
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

// Create inserts a new doctor row.
func (s *Store) Create(ctx context.Context, nd doctorsrepo.CreateDoctor) (doctorsrepo.Doctor, error) {
	const q = `
	INSERT INTO doctors
		(doctor_id, user_id, specialization_id, institution_id, license_number)
	VALUES
		(@doctor_id, @user_id, @specialization_id, @institution_id, @license_number)
	RETURNING *`

	args := pgx.NamedArgs{
		"doctor_id":         nd.DoctorID,
		"user_id":           nd.UserID,
		"specialization_id": nd.SpecializationID,
		"institution_id":    nd.InstitutionID,
		"license_number":    nd.LicenseNumber,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[doctorsrepo.Doctor])
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	return doc, nil
}

// Update applies the non-nil fields of ud to an existing doctor row.
func (s *Store) Update(ctx context.Context, doctorID string, ud doctorsrepo.UpdateDoctor) (doctorsrepo.Doctor, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"doctor_id": doctorID}

	if ud.SpecializationID != nil {
		sets = append(sets, "specialization_id = @specialization_id")
		args["specialization_id"] = *ud.SpecializationID
	}
	if ud.InstitutionID != nil {
		sets = append(sets, "institution_id = @institution_id")
		args["institution_id"] = *ud.InstitutionID
	}
	if ud.LicenseNumber != nil {
		sets = append(sets, "license_number = @license_number")
		args["license_number"] = *ud.LicenseNumber
	}

	q := fmt.Sprintf(`
	UPDATE doctors SET
		%s
	WHERE doctor_id = @doctor_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[doctorsrepo.Doctor])
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	return doc, nil
}

// Delete removes a doctor row.
func (s *Store) Delete(ctx context.Context, doctorID string) error {
	const q = `
	DELETE FROM doctors
	WHERE doctor_id = @doctor_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"doctor_id": doctorID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a doctor row by primary key.
func (s *Store) QueryByID(ctx context.Context, doctorID string) (doctorsrepo.Doctor, error) {
	const q = `
	SELECT * FROM doctors
	WHERE doctor_id = @doctor_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"doctor_id": doctorID})
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[doctorsrepo.Doctor])
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	return doc, nil
}

// QueryByUserID retrieves a doctor row by owning user.
func (s *Store) QueryByUserID(ctx context.Context, userID string) (doctorsrepo.Doctor, error) {
	const q = `
	SELECT * FROM doctors
	WHERE user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[doctorsrepo.Doctor])
	if err != nil {
		return doctorsrepo.Doctor{}, postgresdb.HandlePgError(err)
	}

	return doc, nil
}

// QueryByInstitution retrieves all doctor rows attached to an institution.
func (s *Store) QueryByInstitution(ctx context.Context, institutionID string) ([]doctorsrepo.Doctor, error) {
	const q = `
	SELECT * FROM doctors
	WHERE institution_id = @institution_id
	ORDER BY created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"institution_id": institutionID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToStructByName[doctorsrepo.Doctor])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return docs, nil
}
