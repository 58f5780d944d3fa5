package doctorsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Doctor bridge.
type Config struct {
	Log        *logger.Logger
	Repository *doctorsrepo.Repository
	Middleware []web.Middleware
}

// AddProfileHttpRoutes registers the self-service profile routes for the
// doctor surface.
func AddProfileHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/profile", b.httpGetOwnProfile, cfg.Middleware...)
	group.PUT("/profile", b.httpUpdateOwnProfile, cfg.Middleware...)
}

// AddHttpRoutes registers the doctor directory routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/doctors/{doctor_id}", b.httpGetByID, cfg.Middleware...)
	group.GET("/institutions/{institution_id}/doctors", b.httpListByInstitution, cfg.Middleware...)
}

func (b *bridge) httpGetOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	doctor, err := b.doctorRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query doctor profile user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(doctor)
}

func (b *bridge) httpUpdateOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	doctor, err := b.doctorRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query doctor profile user[%s]: %s", userID, err)
	}

	var ud doctorsrepo.UpdateDoctor
	if err := web.Decode(r, &ud); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	doctor, err = b.doctorRepository.Update(ctx, doctor.DoctorID, ud)
	if err != nil {
		return errs.Newf(errs.Internal, "update doctor[%s]: %s", doctor.DoctorID, err)
	}

	return fopbridge.NewRecordResponse(doctor)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	doctorID := web.Param(r, "doctor_id")

	doctor, err := b.doctorRepository.QueryByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query doctor[%s]: %s", doctorID, err)
	}

	return fopbridge.NewRecordResponse(doctor)
}

func (b *bridge) httpListByInstitution(ctx context.Context, r *http.Request) web.Encoder {
	institutionID := web.Param(r, "institution_id")

	doctors, err := b.doctorRepository.QueryByInstitution(ctx, institutionID)
	if err != nil {
		return errs.Newf(errs.Internal, "query doctors institution[%s]: %s", institutionID, err)
	}

	return fopbridge.NewRecordsResponse(doctors)
}
