package medicalstaffrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the StaffMember bridge.
type Config struct {
	Log        *logger.Logger
	Repository *medicalstaffrepo.Repository
	Middleware []web.Middleware
}

// AddProfileHttpRoutes registers the self-service profile routes for the
// staff surface.
func AddProfileHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/profile", b.httpGetOwnProfile, cfg.Middleware...)
	group.PUT("/profile", b.httpUpdateOwnProfile, cfg.Middleware...)
}

// AddHttpRoutes registers the staff directory routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/staff/{staff_id}", b.httpGetByID, cfg.Middleware...)
	group.GET("/institutions/{institution_id}/staff", b.httpListByInstitution, cfg.Middleware...)
}

func (b *bridge) httpGetOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	staff, err := b.staffRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query staff profile user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(staff)
}

func (b *bridge) httpUpdateOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	staff, err := b.staffRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query staff profile user[%s]: %s", userID, err)
	}

	var us medicalstaffrepo.UpdateStaffMember
	if err := web.Decode(r, &us); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	staff, err = b.staffRepository.Update(ctx, staff.StaffID, us)
	if err != nil {
		return errs.Newf(errs.Internal, "update staff[%s]: %s", staff.StaffID, err)
	}

	return fopbridge.NewRecordResponse(staff)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	staffID := web.Param(r, "staff_id")

	staff, err := b.staffRepository.QueryByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query staff[%s]: %s", staffID, err)
	}

	return fopbridge.NewRecordResponse(staff)
}

func (b *bridge) httpListByInstitution(ctx context.Context, r *http.Request) web.Encoder {
	institutionID := web.Param(r, "institution_id")

	staff, err := b.staffRepository.QueryByInstitution(ctx, institutionID)
	if err != nil {
		return errs.Newf(errs.Internal, "query staff institution[%s]: %s", institutionID, err)
	}

	return fopbridge.NewRecordsResponse(staff)
}
