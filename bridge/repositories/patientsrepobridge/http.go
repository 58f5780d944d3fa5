package patientsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Patient bridge.
type Config struct {
	Log        *logger.Logger
	Repository *patientsrepo.Repository
	Middleware []web.Middleware
}

// AddProfileHttpRoutes registers the self-service profile routes for the
// patient surface.
func AddProfileHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/profile", b.httpGetOwnProfile, cfg.Middleware...)
	group.PUT("/profile", b.httpUpdateOwnProfile, cfg.Middleware...)
}

// AddHttpRoutes registers the patient record routes used by care teams.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/patients/{patient_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/patients/{patient_id}", b.httpUpdate, cfg.Middleware...)
}

func (b *bridge) httpGetOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query patient profile user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(patient)
}

func (b *bridge) httpUpdateOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query patient profile user[%s]: %s", userID, err)
	}

	var up patientsrepo.UpdatePatient
	if err := web.Decode(r, &up); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	patient, err = b.patientRepository.Update(ctx, patient.PatientID, up)
	if err != nil {
		return errs.Newf(errs.Internal, "update patient[%s]: %s", patient.PatientID, err)
	}

	return fopbridge.NewRecordResponse(patient)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	patientID := web.Param(r, "patient_id")

	patient, err := b.patientRepository.QueryByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query patient[%s]: %s", patientID, err)
	}

	return fopbridge.NewRecordResponse(patient)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	patientID := web.Param(r, "patient_id")

	var up patientsrepo.UpdatePatient
	if err := web.Decode(r, &up); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	patient, err := b.patientRepository.Update(ctx, patientID, up)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "update patient[%s]: %s", patientID, err)
	}

	return fopbridge.NewRecordResponse(patient)
}
