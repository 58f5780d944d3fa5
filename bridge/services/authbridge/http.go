package authbridge

import (
	"context"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the auth bridge.
type Config struct {
	Log        *logger.Logger
	Service    *authservice.Service
	Middleware []web.Middleware
}

// AddHttpRoutes registers the anonymous routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Service)

	group.POST("/auth/sign-up", b.httpSignUp, cfg.Middleware...)
	group.POST("/auth/sign-in", b.httpSignIn, cfg.Middleware...)
	group.POST("/auth/sign-out", b.httpSignOut, cfg.Middleware...)
}

// AddSessionHttpRoutes registers the routes that need a valid session.
func AddSessionHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Service)

	group.GET("/auth/session", b.httpSession, cfg.Middleware...)
	group.POST("/auth/sign-out-everywhere", b.httpSignOutEverywhere, cfg.Middleware...)
}

type signUpRequest struct {
	usersrepo.CreateUser
	Password string `json:"password"`
}

// Validate implements the web validator interface.
func (req signUpRequest) Validate() error {
	if req.Email == "" {
		return errs.Newf(errs.InvalidArgument, "email is required")
	}
	if len(req.Password) < 8 {
		return errs.Newf(errs.InvalidArgument, "password must be at least 8 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return errs.Newf(errs.InvalidArgument, "first_name and last_name are required")
	}
	return nil
}

func (b *bridge) httpSignUp(ctx context.Context, r *http.Request) web.Encoder {
	var req signUpRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	user, session, err := b.authService.SignUp(ctx, req.CreateUser, req.Password)
	if err != nil {
		return authErr(err)
	}

	return newSessionResponse(ctx, user, session)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *bridge) httpSignIn(ctx context.Context, r *http.Request) web.Encoder {
	var req signInRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	user, session, err := b.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return authErr(err)
	}

	return newSessionResponse(ctx, user, session)
}

func (b *bridge) httpSignOut(ctx context.Context, r *http.Request) web.Encoder {
	token := mid.BearerToken(r)

	if token != "" {
		if err := b.authService.SignOut(ctx, token); err != nil {
			return authErr(err)
		}
	}

	clearSessionCookie(ctx)
	return nil
}

func (b *bridge) httpSignOutEverywhere(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.authService.SignOutEverywhere(ctx, mid.GetUserID(ctx)); err != nil {
		return authErr(err)
	}

	clearSessionCookie(ctx)
	return nil
}

func (b *bridge) httpSession(ctx context.Context, r *http.Request) web.Encoder {
	claims := mid.GetClaims(ctx)

	return web.NewJSONResponse(struct {
		UserID   string  `json:"user_id"`
		Email    string  `json:"email"`
		UserType *string `json:"user_type"`
	}{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserType: claims.UserType,
	})
}
