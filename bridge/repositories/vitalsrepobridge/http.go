package vitalsrepobridge

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/vitalsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Vital bridge.
type Config struct {
	Log        *logger.Logger
	Repository *vitalsrepo.Repository
	Patients   *patientsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the self-service vitals routes for the patient
// surface. Every handler works against the caller's own profile.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository, cfg.Patients)

	group.GET("/vitals", b.httpList, cfg.Middleware...)
	group.POST("/vitals", b.httpCreate, cfg.Middleware...)
	group.GET("/vitals/{vitals_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/vitals/{vitals_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/vitals/{vitals_id}", b.httpDelete, cfg.Middleware...)
	group.POST("/vitals/{vitals_id}/readings", b.httpCreateReading, cfg.Middleware...)
	group.GET("/vitals/{vitals_id}/readings", b.httpListReadings, cfg.Middleware...)
}

// AddCareHttpRoutes registers the read side used by care teams.
func AddCareHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository, cfg.Patients)

	group.GET("/patients/{patient_id}/vitals", b.httpListByPatient, cfg.Middleware...)
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

	vitals, err := b.vitalRepository.QueryByPatient(ctx, patient.PatientID)
	if err != nil {
		return errs.Newf(errs.Internal, "query vitals patient[%s]: %s", patient.PatientID, err)
	}

	return fopbridge.NewRecordsResponse(vitals)
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

	var nv vitalsrepo.CreateVital
	if err := web.Decode(r, &nv); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}
	nv.PatientID = patient.PatientID

	vital, err := b.vitalRepository.Create(ctx, nv)
	if err != nil {
		return errs.Newf(errs.Internal, "create vital: %s", err)
	}

	return fopbridge.NewRecordResponse(vital)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	vitalsID := web.Param(r, "vitals_id")

	vital, err := b.ownVital(ctx, mid.GetUserID(ctx), vitalsID)
	if err != nil {
		return vitalErr(vitalsID, err)
	}

	return fopbridge.NewRecordResponse(vital)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	vitalsID := web.Param(r, "vitals_id")

	if _, err := b.ownVital(ctx, mid.GetUserID(ctx), vitalsID); err != nil {
		return vitalErr(vitalsID, err)
	}

	var uv vitalsrepo.UpdateVital
	if err := web.Decode(r, &uv); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	vital, err := b.vitalRepository.Update(ctx, vitalsID, uv)
	if err != nil {
		return errs.Newf(errs.Internal, "update vital[%s]: %s", vitalsID, err)
	}

	return fopbridge.NewRecordResponse(vital)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	vitalsID := web.Param(r, "vitals_id")

	if _, err := b.ownVital(ctx, mid.GetUserID(ctx), vitalsID); err != nil {
		return vitalErr(vitalsID, err)
	}

	if err := b.vitalRepository.Delete(ctx, vitalsID); err != nil {
		return errs.Newf(errs.Internal, "delete vital[%s]: %s", vitalsID, err)
	}

	return nil
}

func (b *bridge) httpCreateReading(ctx context.Context, r *http.Request) web.Encoder {
	vitalsID := web.Param(r, "vitals_id")

	if _, err := b.ownVital(ctx, mid.GetUserID(ctx), vitalsID); err != nil {
		return vitalErr(vitalsID, err)
	}

	var nr vitalsrepo.CreateReading
	if err := web.Decode(r, &nr); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	reading, err := b.vitalRepository.CreateReading(ctx, vitalsID, nr)
	if err != nil {
		return errs.Newf(errs.Internal, "create reading vital[%s]: %s", vitalsID, err)
	}

	return fopbridge.NewRecordResponse(reading)
}

func (b *bridge) httpListReadings(ctx context.Context, r *http.Request) web.Encoder {
	vitalsID := web.Param(r, "vitals_id")

	if _, err := b.ownVital(ctx, mid.GetUserID(ctx), vitalsID); err != nil {
		return vitalErr(vitalsID, err)
	}

	limit := 0
	if v := web.QueryParam(r, "limit"); v != "" {
		var err error
		limit, err = strconv.Atoi(v)
		if err != nil {
			return errs.Newf(errs.InvalidArgument, "invalid limit: %s", v)
		}
	}

	readings, err := b.vitalRepository.QueryReadings(ctx, vitalsID, limit)
	if err != nil {
		return errs.Newf(errs.Internal, "query readings vital[%s]: %s", vitalsID, err)
	}

	return fopbridge.NewRecordsResponse(readings)
}

func (b *bridge) httpListByPatient(ctx context.Context, r *http.Request) web.Encoder {
	patientID := web.Param(r, "patient_id")

	vitals, err := b.vitalRepository.QueryByPatient(ctx, patientID)
	if err != nil {
		return errs.Newf(errs.Internal, "query vitals patient[%s]: %s", patientID, err)
	}

	return fopbridge.NewRecordsResponse(vitals)
}

func vitalErr(vitalsID string, err error) web.Encoder {
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return errs.New(errs.NotFound, err)
	case errors.Is(err, ErrNotOwner):
		return errs.New(errs.PermissionDenied, err)
	}
	return errs.Newf(errs.Internal, "vital[%s]: %s", vitalsID, err)
}
