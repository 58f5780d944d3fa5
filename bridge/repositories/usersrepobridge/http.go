package usersrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the User bridge.
type Config struct {
	Log        *logger.Logger
	Repository *usersrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the self-service routes every signed-in user gets.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/me", b.httpGetMe, cfg.Middleware...)
	group.PUT("/me", b.httpUpdateMe, cfg.Middleware...)
}

// AddAdminHttpRoutes registers the account management routes reserved for
// the admin surface.
func AddAdminHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/users/{user_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/users/{user_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/users/{user_id}", b.httpDelete, cfg.Middleware...)
}

func (b *bridge) httpGetMe(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	user, err := b.userRepository.QueryByID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(user)
}

func (b *bridge) httpUpdateMe(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	var uu usersrepo.UpdateUser
	if err := web.Decode(r, &uu); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	// The role is set once through onboarding and never through a profile
	// update.
	uu.UserType = nil

	user, err := b.userRepository.Update(ctx, userID, uu)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return errs.New(errs.Conflict, err)
		}
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "update user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(user)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	userID := web.Param(r, "user_id")

	user, err := b.userRepository.QueryByID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(user)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID := web.Param(r, "user_id")

	var uu usersrepo.UpdateUser
	if err := web.Decode(r, &uu); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if uu.UserType != nil && !usersrepo.ValidUserType(*uu.UserType) {
		return errs.Newf(errs.InvalidArgument, "unknown user type %q", *uu.UserType)
	}

	user, err := b.userRepository.Update(ctx, userID, uu)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return errs.New(errs.Conflict, err)
		}
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "update user[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordResponse(user)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID := web.Param(r, "user_id")

	if err := b.userRepository.Delete(ctx, userID); err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "delete user[%s]: %s", userID, err)
	}

	return nil
}
