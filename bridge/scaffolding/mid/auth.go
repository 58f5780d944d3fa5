package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/infrastructure/web"
)

// SessionCookie is the cookie browsers carry the session token in. API
// clients use a bearer Authorization header instead.
const SessionCookie = "companion_session"

// SessionResolver resolves a session token to claims.
type SessionResolver interface {
	Session(ctx context.Context, token string) (authservice.Claims, error)
}

// BearerToken pulls the session token out of a request, preferring the
// Authorization header over the cookie. Empty means anonymous.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
		return ""
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}

	return ""
}

// Authenticate resolves the session token and stores the claims and user id
// in the context. Requests without a valid session are rejected.
func Authenticate(resolver SessionResolver) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			claims, err := resolver.Session(ctx, BearerToken(r))
			if err != nil {
				return errs.New(errs.Unauthenticated, err)
			}

			ctx = setClaims(ctx, claims)
			ctx = setUserID(ctx, claims.UserID)

			return next(ctx, r)
		}
	}
}
