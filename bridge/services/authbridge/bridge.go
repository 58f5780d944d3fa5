// Package authbridge contains HTTP route registration for sign-up, sign-in
// and session management.
package authbridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/infrastructure/web"
)

// bridge provides HTTP handlers for authentication.
type bridge struct {
	authService *authservice.Service
}

func newBridge(authService *authservice.Service) *bridge {
	return &bridge{
		authService: authService,
	}
}

// sessionResponse is what sign-up and sign-in return. The token also rides
// along as an HttpOnly cookie for browser clients.
type sessionResponse struct {
	User      usersrepo.User `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func newSessionResponse(ctx context.Context, user usersrepo.User, session sessionsrepo.Session) web.Encoder {
	if w := web.GetWriter(ctx); w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     mid.SessionCookie,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return web.NewJSONResponse(sessionResponse{
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func clearSessionCookie(ctx context.Context) {
	if w := web.GetWriter(ctx); w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     mid.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// authErr maps service errors to response codes.
func authErr(err error) web.Encoder {
	switch {
	case errors.Is(err, authservice.ErrBadCredentials),
		errors.Is(err, authservice.ErrBadToken):
		return errs.New(errs.Unauthenticated, err)
	case errors.Is(err, authservice.ErrEmailTaken):
		return errs.New(errs.Conflict, err)
	}
	return errs.New(errs.Internal, err)
}
