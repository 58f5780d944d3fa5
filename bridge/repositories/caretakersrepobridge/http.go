package caretakersrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Caretaker bridge.
type Config struct {
	Log        *logger.Logger
	Repository *caretakersrepo.Repository
	Middleware []web.Middleware
}

// AddProfileHttpRoutes registers the self-service profile routes for the
// caretaker surface.
func AddProfileHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/profile", b.httpGetOwnProfile, cfg.Middleware...)
	group.PUT("/profile", b.httpUpdateOwnProfile, cfg.Middleware...)
}

// AddHttpRoutes registers the caretaker record routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/caretakers/{caretaker_id}", b.httpGetByID, cfg.Middleware...)
}

func (b *bridge) httpGetOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	caretaker, err := b.caretakerRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query caretaker profile user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(caretaker)
}

func (b *bridge) httpUpdateOwnProfile(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	caretaker, err := b.caretakerRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query caretaker profile user[%s]: %s", userID, err)
	}

	var uc caretakersrepo.UpdateCaretaker
	if err := web.Decode(r, &uc); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	caretaker, err = b.caretakerRepository.Update(ctx, caretaker.CaretakerID, uc)
	if err != nil {
		return errs.Newf(errs.Internal, "update caretaker[%s]: %s", caretaker.CaretakerID, err)
	}

	return fopbridge.NewRecordResponse(caretaker)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	caretakerID := web.Param(r, "caretaker_id")

	caretaker, err := b.caretakerRepository.QueryByID(ctx, caretakerID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query caretaker[%s]: %s", caretakerID, err)
	}

	return fopbridge.NewRecordResponse(caretaker)
}
