package mid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	sessions map[string]authservice.Claims
}

func (f *fakeResolver) Session(ctx context.Context, token string) (authservice.Claims, error) {
	claims, ok := f.sessions[token]
	if !ok {
		return authservice.Claims{}, authservice.ErrBadToken
	}
	return claims, nil
}

func newResolver() *fakeResolver {
	patientType := usersrepo.TypePatient
	doctorType := usersrepo.TypeDoctor

	return &fakeResolver{
		sessions: map[string]authservice.Claims{
			"tok-patient": {UserID: "u-patient", Email: "p@example.com", UserType: &patientType},
			"tok-doctor":  {UserID: "u-doctor", Email: "d@example.com", UserType: &doctorType},
			"tok-fresh":   {UserID: "u-fresh", Email: "f@example.com"},
		},
	}
}

func request(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/patient/tasks", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func passThrough(ctx context.Context, r *http.Request) web.Encoder {
	return web.NewJSONResponse(mid.GetUserID(ctx))
}

func redirectTarget(t *testing.T, resp web.Encoder) string {
	t.Helper()

	rr, ok := resp.(*web.RedirectResponse)
	require.True(t, ok, "expected a redirect, got %T", resp)
	require.Equal(t, http.StatusSeeOther, rr.HTTPStatus())

	return rr.Location
}

func TestRoleRouteAnonymous(t *testing.T) {
	handler := mid.RoleRoute(newResolver(), usersrepo.TypePatient)(passThrough)

	resp := handler(context.Background(), request(""))
	require.Equal(t, mid.SignInPath, redirectTarget(t, resp))

	resp = handler(context.Background(), request("tok-unknown"))
	require.Equal(t, mid.SignInPath, redirectTarget(t, resp))
}

func TestRoleRouteNotOnboarded(t *testing.T) {
	handler := mid.RoleRoute(newResolver(), usersrepo.TypePatient)(passThrough)

	resp := handler(context.Background(), request("tok-fresh"))
	require.Equal(t, mid.OnboardingPath, redirectTarget(t, resp))
}

func TestRoleRouteWrongRole(t *testing.T) {
	handler := mid.RoleRoute(newResolver(), usersrepo.TypePatient)(passThrough)

	resp := handler(context.Background(), request("tok-doctor"))
	require.Equal(t, "/doctor", redirectTarget(t, resp))
}

func TestRoleRouteMatch(t *testing.T) {
	handler := mid.RoleRoute(newResolver(), usersrepo.TypePatient)(passThrough)

	resp := handler(context.Background(), request("tok-patient"))

	jr, ok := resp.(*web.JSONResponse[string])
	require.True(t, ok, "expected the handler to run, got %T", resp)
	require.Equal(t, "u-patient", jr.Data)
}

func TestOnboardingRoute(t *testing.T) {
	handler := mid.OnboardingRoute(newResolver())(passThrough)

	resp := handler(context.Background(), request(""))
	require.Equal(t, mid.SignInPath, redirectTarget(t, resp))

	resp = handler(context.Background(), request("tok-patient"))
	require.Equal(t, "/patient", redirectTarget(t, resp))

	resp = handler(context.Background(), request("tok-fresh"))
	jr, ok := resp.(*web.JSONResponse[string])
	require.True(t, ok, "expected the handler to run, got %T", resp)
	require.Equal(t, "u-fresh", jr.Data)
}

func TestContextAccessorsZeroValue(t *testing.T) {
	ctx := context.Background()

	require.Empty(t, mid.GetUserID(ctx))
	require.Empty(t, mid.GetClaims(ctx).UserID)
	require.Nil(t, mid.GetClaims(ctx).UserType)
}

func TestRoleRootFailsClosed(t *testing.T) {
	require.Equal(t, "/staff", mid.RoleRoot(usersrepo.TypeMedicalStaff))
	require.Equal(t, mid.SignInPath, mid.RoleRoot("GARDENER"))
}
