// Package journalspgxstore provides a postgres backed store for journals.
package journalspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/journalsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for journal database access.
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

// Create inserts a new entry row and its tag rows in one transaction.
func (s *Store) Create(ctx context.Context, ne journalsrepo.CreateEntry) (journalsrepo.Entry, error) {
	var ent journalsrepo.Entry

	err := postgresdb.WithinTran(ctx, s.pool, func(ctx context.Context) error {
		const q = `
		INSERT INTO journal_entries
			(entry_id, patient_id, title, content, mood, entry_date)
		VALUES
			(@entry_id, @patient_id, @title, @content, @mood, COALESCE(@entry_date, CURRENT_DATE))
		RETURNING *`

		args := pgx.NamedArgs{
			"entry_id":   ne.EntryID,
			"patient_id": ne.PatientID,
			"title":      ne.Title,
			"content":    ne.Content,
			"mood":       ne.Mood,
			"entry_date": ne.EntryDate,
		}

		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

		ent, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[journalsrepo.Entry])
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

		for _, name := range ne.Tags {
			if _, err := s.AddTag(ctx, ne.EntryID, name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return journalsrepo.Entry{}, err
	}

	return ent, nil
}

// Update applies the non-nil fields of ue to an existing entry row.
func (s *Store) Update(ctx context.Context, entryID string, ue journalsrepo.UpdateEntry) (journalsrepo.Entry, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"entry_id": entryID}

	if ue.Title != nil {
		sets = append(sets, "title = @title")
		args["title"] = *ue.Title
	}
	if ue.Content != nil {
		sets = append(sets, "content = @content")
		args["content"] = *ue.Content
	}
	if ue.Mood != nil {
		sets = append(sets, "mood = @mood")
		args["mood"] = *ue.Mood
	}
	if ue.EntryDate != nil {
		sets = append(sets, "entry_date = @entry_date")
		args["entry_date"] = *ue.EntryDate
	}

	q := fmt.Sprintf(`
	UPDATE journal_entries SET
		%s
	WHERE entry_id = @entry_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return journalsrepo.Entry{}, postgresdb.HandlePgError(err)
	}

	ent, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[journalsrepo.Entry])
	if err != nil {
		return journalsrepo.Entry{}, postgresdb.HandlePgError(err)
	}

	return ent, nil
}

// Delete removes an entry row. Tags cascade at the schema level.
func (s *Store) Delete(ctx context.Context, entryID string) error {
	const q = `
	DELETE FROM journal_entries
	WHERE entry_id = @entry_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"entry_id": entryID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves an entry row by primary key.
func (s *Store) QueryByID(ctx context.Context, entryID string) (journalsrepo.Entry, error) {
	const q = `
	SELECT * FROM journal_entries
	WHERE entry_id = @entry_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"entry_id": entryID})
	if err != nil {
		return journalsrepo.Entry{}, postgresdb.HandlePgError(err)
	}

	ent, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[journalsrepo.Entry])
	if err != nil {
		return journalsrepo.Entry{}, postgresdb.HandlePgError(err)
	}

	return ent, nil
}

// QueryByPatient retrieves the most recent entry rows for a patient.
func (s *Store) QueryByPatient(ctx context.Context, patientID string, limit int) ([]journalsrepo.Entry, error) {
	const q = `
	SELECT * FROM journal_entries
	WHERE patient_id = @patient_id
	ORDER BY entry_date DESC, created_at DESC
	LIMIT @limit`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"patient_id": patientID,
		"limit":      limit,
	})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	ents, err := pgx.CollectRows(rows, pgx.RowToStructByName[journalsrepo.Entry])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return ents, nil
}

// AddTag inserts a tag row for an entry.
func (s *Store) AddTag(ctx context.Context, entryID string, name string) (journalsrepo.Tag, error) {
	const q = `
	INSERT INTO journal_tags
		(tag_id, entry_id, name)
	VALUES
		(@tag_id, @entry_id, @name)
	RETURNING *`

	args := pgx.NamedArgs{
		"tag_id":   uuid.NewString(),
		"entry_id": entryID,
		"name":     name,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return journalsrepo.Tag{}, postgresdb.HandlePgError(err)
	}

	tag, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[journalsrepo.Tag])
	if err != nil {
		return journalsrepo.Tag{}, postgresdb.HandlePgError(err)
	}

	return tag, nil
}

// RemoveTag deletes a tag row by entry and name.
func (s *Store) RemoveTag(ctx context.Context, entryID string, name string) error {
	const q = `
	DELETE FROM journal_tags
	WHERE entry_id = @entry_id AND name = @name`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"entry_id": entryID,
		"name":     name,
	}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryTags retrieves the tag rows attached to an entry.
func (s *Store) QueryTags(ctx context.Context, entryID string) ([]journalsrepo.Tag, error) {
	const q = `
	SELECT * FROM journal_tags
	WHERE entry_id = @entry_id
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"entry_id": entryID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowToStructByName[journalsrepo.Tag])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tags, nil
}
