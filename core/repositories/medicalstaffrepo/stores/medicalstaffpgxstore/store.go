// Package medicalstaffpgxstore provides a postgres backed store for staff profiles.
package medicalstaffpgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for staff database access.
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

// Create inserts a new staff row.
func (s *Store) Create(ctx context.Context, ns medicalstaffrepo.CreateStaffMember) (medicalstaffrepo.StaffMember, error) {
	const q = `
	INSERT INTO medical_staff
		(staff_id, user_id, institution_id, role_title)
	VALUES
		(@staff_id, @user_id, @institution_id, @role_title)
	RETURNING *`

	args := pgx.NamedArgs{
		"staff_id":       ns.StaffID,
		"user_id":        ns.UserID,
		"institution_id": ns.InstitutionID,
		"role_title":     ns.RoleTitle,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	sm, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[medicalstaffrepo.StaffMember])
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	return sm, nil
}

// Update applies the non-nil fields of us to an existing staff row.
func (s *Store) Update(ctx context.Context, staffID string, us medicalstaffrepo.UpdateStaffMember) (medicalstaffrepo.StaffMember, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"staff_id": staffID}

	if us.InstitutionID != nil {
		sets = append(sets, "institution_id = @institution_id")
		args["institution_id"] = *us.InstitutionID
	}
	if us.RoleTitle != nil {
		sets = append(sets, "role_title = @role_title")
		args["role_title"] = *us.RoleTitle
	}

	q := fmt.Sprintf(`
	UPDATE medical_staff SET
		%s
	WHERE staff_id = @staff_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	sm, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[medicalstaffrepo.StaffMember])
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	return sm, nil
}

// Delete removes a staff row.
func (s *Store) Delete(ctx context.Context, staffID string) error {
	const q = `
	DELETE FROM medical_staff
	WHERE staff_id = @staff_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"staff_id": staffID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a staff row by primary key.
func (s *Store) QueryByID(ctx context.Context, staffID string) (medicalstaffrepo.StaffMember, error) {
	const q = `
	SELECT * FROM medical_staff
	WHERE staff_id = @staff_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"staff_id": staffID})
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	sm, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[medicalstaffrepo.StaffMember])
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	return sm, nil
}

// QueryByUserID retrieves a staff row by owning user.
func (s *Store) QueryByUserID(ctx context.Context, userID string) (medicalstaffrepo.StaffMember, error) {
	const q = `
	SELECT * FROM medical_staff
	WHERE user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	sm, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[medicalstaffrepo.StaffMember])
	if err != nil {
		return medicalstaffrepo.StaffMember{}, postgresdb.HandlePgError(err)
	}

	return sm, nil
}

// QueryByInstitution retrieves all staff rows attached to an institution.
func (s *Store) QueryByInstitution(ctx context.Context, institutionID string) ([]medicalstaffrepo.StaffMember, error) {
	const q = `
	SELECT * FROM medical_staff
	WHERE institution_id = @institution_id
	ORDER BY created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"institution_id": institutionID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	sms, err := pgx.CollectRows(rows, pgx.RowToStructByName[medicalstaffrepo.StaffMember])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return sms, nil
}
