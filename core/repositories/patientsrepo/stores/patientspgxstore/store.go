// Package patientspgxstore provides a postgres backed store for patient profiles.
package patientspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for patient database access.
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

// Create inserts a new patient row.
func (s *Store) Create(ctx context.Context, np patientsrepo.CreatePatient) (patientsrepo.Patient, error) {
	const q = `
	INSERT INTO patients
		(patient_id, user_id, cancer_type_id, diagnosis_date, blood_group, emergency_contact)
	VALUES
		(@patient_id, @user_id, @cancer_type_id, @diagnosis_date, @blood_group, @emergency_contact)
	RETURNING *`

	args := pgx.NamedArgs{
		"patient_id":        np.PatientID,
		"user_id":           np.UserID,
		"cancer_type_id":    np.CancerTypeID,
		"diagnosis_date":    np.DiagnosisDate,
		"blood_group":       np.BloodGroup,
		"emergency_contact": np.EmergencyContact,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	pat, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patientsrepo.Patient])
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	return pat, nil
}

// Update applies the non-nil fields of up to an existing patient row.
func (s *Store) Update(ctx context.Context, patientID string, up patientsrepo.UpdatePatient) (patientsrepo.Patient, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"patient_id": patientID}

	if up.CancerTypeID != nil {
		sets = append(sets, "cancer_type_id = @cancer_type_id")
		args["cancer_type_id"] = *up.CancerTypeID
	}
	if up.DiagnosisDate != nil {
		sets = append(sets, "diagnosis_date = @diagnosis_date")
		args["diagnosis_date"] = *up.DiagnosisDate
	}
	if up.BloodGroup != nil {
		sets = append(sets, "blood_group = @blood_group")
		args["blood_group"] = *up.BloodGroup
	}
	if up.EmergencyContact != nil {
		sets = append(sets, "emergency_contact = @emergency_contact")
		args["emergency_contact"] = *up.EmergencyContact
	}

	q := fmt.Sprintf(`
	UPDATE patients SET
		%s
	WHERE patient_id = @patient_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	pat, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patientsrepo.Patient])
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	return pat, nil
}

// Delete removes a patient row.
func (s *Store) Delete(ctx context.Context, patientID string) error {
	const q = `
	DELETE FROM patients
	WHERE patient_id = @patient_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"patient_id": patientID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a patient row by primary key.
func (s *Store) QueryByID(ctx context.Context, patientID string) (patientsrepo.Patient, error) {
	const q = `
	SELECT * FROM patients
	WHERE patient_id = @patient_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"patient_id": patientID})
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	pat, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patientsrepo.Patient])
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	return pat, nil
}

// QueryByUserID retrieves a patient row by owning user.
func (s *Store) QueryByUserID(ctx context.Context, userID string) (patientsrepo.Patient, error) {
	const q = `
	SELECT * FROM patients
	WHERE user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	pat, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patientsrepo.Patient])
	if err != nil {
		return patientsrepo.Patient{}, postgresdb.HandlePgError(err)
	}

	return pat, nil
}
