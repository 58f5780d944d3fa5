// Package onboardingbridge contains HTTP route registration for the role
// selection step that happens once after sign-up.
package onboardingbridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/services/onboardingservice"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the onboarding bridge.
type Config struct {
	Log        *logger.Logger
	Service    *onboardingservice.Service
	Middleware []web.Middleware
}

// AddHttpRoutes registers the onboarding route. The caller must be signed
// in but must not have picked a role yet; the route group enforces that.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{onboardingService: cfg.Service}

	group.POST("/onboarding", b.httpOnboard, cfg.Middleware...)
}

type bridge struct {
	onboardingService *onboardingservice.Service
}

func (b *bridge) httpOnboard(ctx context.Context, r *http.Request) web.Encoder {
	var choice onboardingservice.Choice
	if err := web.Decode(r, &choice); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	user, err := b.onboardingService.Onboard(ctx, mid.GetUserID(ctx), choice)
	if err != nil {
		switch {
		case errors.Is(err, onboardingservice.ErrAlreadyOnboarded):
			return errs.New(errs.Conflict, err)
		case errors.Is(err, onboardingservice.ErrUnknownRole),
			errors.Is(err, onboardingservice.ErrMissingProfile):
			return errs.New(errs.InvalidArgument, err)
		}
		return errs.New(errs.Internal, err)
	}

	return fopbridge.NewRecordResponse(user)
}
