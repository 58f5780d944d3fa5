// Package mid provides app level middleware support.
package mid

import (
	"context"

	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/infrastructure/web"
)

type ctxKey int

const (
	claimsKey ctxKey = iota + 1
	userIDKey
)

func setClaims(ctx context.Context, claims authservice.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the session claims from the context. The zero value
// comes back on routes that never passed through Authenticate.
func GetClaims(ctx context.Context) authservice.Claims {
	v, _ := ctx.Value(claimsKey).(authservice.Claims)
	return v
}

func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id from the context. The empty string comes
// back on routes that never passed through Authenticate.
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
