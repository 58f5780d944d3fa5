// Package vitalspgxstore provides a postgres backed store for vitals.
package vitalspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/vitalsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for vitals database access.
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

// Create inserts a new vitals row.
func (s *Store) Create(ctx context.Context, nv vitalsrepo.CreateVital) (vitalsrepo.Vital, error) {
	const q = `
	INSERT INTO vitals
		(vitals_id, patient_id, name, unit, min_value, max_value)
	VALUES
		(@vitals_id, @patient_id, @name, @unit, @min_value, @max_value)
	RETURNING *`

	args := pgx.NamedArgs{
		"vitals_id":  nv.VitalsID,
		"patient_id": nv.PatientID,
		"name":       nv.Name,
		"unit":       nv.Unit,
		"min_value":  nv.MinValue,
		"max_value":  nv.MaxValue,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	vit, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[vitalsrepo.Vital])
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	return vit, nil
}

// Update applies the non-nil fields of uv to an existing vitals row.
func (s *Store) Update(ctx context.Context, vitalsID string, uv vitalsrepo.UpdateVital) (vitalsrepo.Vital, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"vitals_id": vitalsID}

	if uv.Name != nil {
		sets = append(sets, "name = @name")
		args["name"] = *uv.Name
	}
	if uv.Unit != nil {
		sets = append(sets, "unit = @unit")
		args["unit"] = *uv.Unit
	}
	if uv.MinValue != nil {
		sets = append(sets, "min_value = @min_value")
		args["min_value"] = *uv.MinValue
	}
	if uv.MaxValue != nil {
		sets = append(sets, "max_value = @max_value")
		args["max_value"] = *uv.MaxValue
	}

	q := fmt.Sprintf(`
	UPDATE vitals SET
		%s
	WHERE vitals_id = @vitals_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	vit, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[vitalsrepo.Vital])
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	return vit, nil
}

// Delete removes a vitals row. Readings cascade at the schema level.
func (s *Store) Delete(ctx context.Context, vitalsID string) error {
	const q = `
	DELETE FROM vitals
	WHERE vitals_id = @vitals_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"vitals_id": vitalsID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a vitals row by primary key.
func (s *Store) QueryByID(ctx context.Context, vitalsID string) (vitalsrepo.Vital, error) {
	const q = `
	SELECT * FROM vitals
	WHERE vitals_id = @vitals_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"vitals_id": vitalsID})
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	vit, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[vitalsrepo.Vital])
	if err != nil {
		return vitalsrepo.Vital{}, postgresdb.HandlePgError(err)
	}

	return vit, nil
}

// QueryByPatient retrieves the vitals rows tracked for a patient.
func (s *Store) QueryByPatient(ctx context.Context, patientID string) ([]vitalsrepo.Vital, error) {
	const q = `
	SELECT * FROM vitals
	WHERE patient_id = @patient_id
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"patient_id": patientID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	vits, err := pgx.CollectRows(rows, pgx.RowToStructByName[vitalsrepo.Vital])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return vits, nil
}

// CreateReading inserts a new reading row.
func (s *Store) CreateReading(ctx context.Context, nr vitalsrepo.CreateReading) (vitalsrepo.Reading, error) {
	const q = `
	INSERT INTO vital_readings
		(reading_id, vitals_id, value, recorded_at, note)
	VALUES
		(@reading_id, @vitals_id, @value, COALESCE(@recorded_at, now()), @note)
	RETURNING *`

	args := pgx.NamedArgs{
		"reading_id":  nr.ReadingID,
		"vitals_id":   nr.VitalsID,
		"value":       nr.Value,
		"recorded_at": nr.RecordedAt,
		"note":        nr.Note,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return vitalsrepo.Reading{}, postgresdb.HandlePgError(err)
	}

	rd, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[vitalsrepo.Reading])
	if err != nil {
		return vitalsrepo.Reading{}, postgresdb.HandlePgError(err)
	}

	return rd, nil
}

// QueryReadings retrieves the most recent reading rows for a vital series.
func (s *Store) QueryReadings(ctx context.Context, vitalsID string, limit int) ([]vitalsrepo.Reading, error) {
	const q = `
	SELECT * FROM vital_readings
	WHERE vitals_id = @vitals_id
	ORDER BY recorded_at DESC
	LIMIT @limit`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"vitals_id": vitalsID,
		"limit":     limit,
	})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	rds, err := pgx.CollectRows(rows, pgx.RowToStructByName[vitalsrepo.Reading])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return rds, nil
}

// DeleteReading removes a single reading row.
func (s *Store) DeleteReading(ctx context.Context, readingID string) error {
	const q = `
	DELETE FROM vital_readings
	WHERE reading_id = @reading_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"reading_id": readingID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}
