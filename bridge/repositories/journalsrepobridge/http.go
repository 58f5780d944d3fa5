package journalsrepobridge

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/journalsrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the journal bridge.
type Config struct {
	Log        *logger.Logger
	Repository *journalsrepo.Repository
	Patients   *patientsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the self-service journal routes for the patient
// surface.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository, cfg.Patients)

	group.GET("/journal", b.httpList, cfg.Middleware...)
	group.POST("/journal", b.httpCreate, cfg.Middleware...)
	group.GET("/journal/{entry_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/journal/{entry_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/journal/{entry_id}", b.httpDelete, cfg.Middleware...)
	group.GET("/journal/{entry_id}/tags", b.httpListTags, cfg.Middleware...)
	group.POST("/journal/{entry_id}/tags", b.httpAddTag, cfg.Middleware...)
	group.DELETE("/journal/{entry_id}/tags/{name}", b.httpRemoveTag, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query patient user[%s]: %s", userID, err)
	}

	limit := 0
	if v := web.QueryParam(r, "limit"); v != "" {
		var err error
		limit, err = strconv.Atoi(v)
		if err != nil {
			return errs.Newf(errs.InvalidArgument, "invalid limit: %s", v)
		}
	}

	entries, err := b.journalRepository.QueryByPatient(ctx, patient.PatientID, limit)
	if err != nil {
		return errs.Newf(errs.Internal, "query journal patient[%s]: %s", patient.PatientID, err)
	}

	return fopbridge.NewRecordsResponse(entries)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query patient user[%s]: %s", userID, err)
	}

	var ne journalsrepo.CreateEntry
	if err := web.Decode(r, &ne); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}
	ne.PatientID = patient.PatientID

	entry, err := b.journalRepository.Create(ctx, ne)
	if err != nil {
		return errs.Newf(errs.Internal, "create journal entry: %s", err)
	}

	return fopbridge.NewRecordResponse(entry)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")

	entry, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID)
	if err != nil {
		return entryErr(entryID, err)
	}

	return fopbridge.NewRecordResponse(entry)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")

	if _, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID); err != nil {
		return entryErr(entryID, err)
	}

	var ue journalsrepo.UpdateEntry
	if err := web.Decode(r, &ue); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	entry, err := b.journalRepository.Update(ctx, entryID, ue)
	if err != nil {
		return errs.Newf(errs.Internal, "update journal entry[%s]: %s", entryID, err)
	}

	return fopbridge.NewRecordResponse(entry)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")

	if _, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID); err != nil {
		return entryErr(entryID, err)
	}

	if err := b.journalRepository.Delete(ctx, entryID); err != nil {
		return errs.Newf(errs.Internal, "delete journal entry[%s]: %s", entryID, err)
	}

	return nil
}

func (b *bridge) httpListTags(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")

	if _, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID); err != nil {
		return entryErr(entryID, err)
	}

	tags, err := b.journalRepository.QueryTags(ctx, entryID)
	if err != nil {
		return errs.Newf(errs.Internal, "query tags entry[%s]: %s", entryID, err)
	}

	return fopbridge.NewRecordsResponse(tags)
}

func (b *bridge) httpAddTag(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")

	if _, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID); err != nil {
		return entryErr(entryID, err)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := web.Decode(r, &body); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tag, err := b.journalRepository.AddTag(ctx, entryID, body.Name)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return errs.New(errs.Conflict, err)
		}
		return errs.Newf(errs.Internal, "add tag entry[%s]: %s", entryID, err)
	}

	return fopbridge.NewRecordResponse(tag)
}

func (b *bridge) httpRemoveTag(ctx context.Context, r *http.Request) web.Encoder {
	entryID := web.Param(r, "entry_id")
	name := web.Param(r, "name")

	if _, err := b.ownEntry(ctx, mid.GetUserID(ctx), entryID); err != nil {
		return entryErr(entryID, err)
	}

	if err := b.journalRepository.RemoveTag(ctx, entryID, name); err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "remove tag entry[%s]: %s", entryID, err)
	}

	return nil
}

func entryErr(entryID string, err error) web.Encoder {
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return errs.New(errs.NotFound, err)
	case errors.Is(err, ErrNotOwner):
		return errs.New(errs.PermissionDenied, err)
	}
	return errs.Newf(errs.Internal, "journal entry[%s]: %s", entryID, err)
}
