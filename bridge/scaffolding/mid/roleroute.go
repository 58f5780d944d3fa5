package mid

import (
	"context"
	"net/http"

	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/infrastructure/web"
)

// Well known destinations the role router sends users to.
const (
	SignInPath     = "/sign-in"
	OnboardingPath = "/onboarding"
)

// RoleRoot returns the dashboard root for an account type. Unknown types
// fail closed to the sign-in page.
func RoleRoot(userType string) string {
	switch userType {
	case usersrepo.TypePatient:
		return "/patient"
	case usersrepo.TypeCaretaker:
		return "/caretaker"
	case usersrepo.TypeDoctor:
		return "/doctor"
	case usersrepo.TypeMedicalStaff:
		return "/staff"
	case usersrepo.TypeAdmin:
		return "/admin"
	}
	return SignInPath
}

// RoleRoute guards a role surface. Anonymous users go to sign-in, users
// without a role go to onboarding, and users of another role go to their
// own dashboard root. Matching users pass through with claims in context.
func RoleRoute(resolver SessionResolver, requiredType string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			claims, err := resolver.Session(ctx, BearerToken(r))
			if err != nil {
				return web.NewRedirect(SignInPath)
			}

			if claims.UserType == nil {
				return web.NewRedirect(OnboardingPath)
			}

			if *claims.UserType != requiredType {
				return web.NewRedirect(RoleRoot(*claims.UserType))
			}

			ctx = setClaims(ctx, claims)
			ctx = setUserID(ctx, claims.UserID)

			return next(ctx, r)
		}
	}
}

// OnboardingRoute guards the onboarding surface. It admits only
// authenticated users who have not picked a role yet; everyone with a role
// goes to their dashboard root.
func OnboardingRoute(resolver SessionResolver) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			claims, err := resolver.Session(ctx, BearerToken(r))
			if err != nil {
				return web.NewRedirect(SignInPath)
			}

			if claims.UserType != nil {
				return web.NewRedirect(RoleRoot(*claims.UserType))
			}

			ctx = setClaims(ctx, claims)
			ctx = setUserID(ctx, claims.UserID)

			return next(ctx, r)
		}
	}
}
