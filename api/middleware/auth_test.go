package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/auth"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "menuflow-test", ExpirationMinutes: 60}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

func TestAuthRejectsMissingToken(t *testing.T) {
	t.Parallel()
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	t.Parallel()
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsActor(t *testing.T) {
	t.Parallel()
	restaurantID := uuid.New()
	userID := uuid.New()
	token := mintTestToken(t, userID, enums.UserRoleOwner, &restaurantID)

	var captured restaurants.Actor
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			t.Fatal("expected actor in context")
		}
		captured = actor
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.UserID != userID || captured.Role != enums.UserRoleOwner {
		t.Fatalf("unexpected actor %+v", captured)
	}
	if captured.RestaurantID == nil || *captured.RestaurantID != restaurantID {
		t.Fatalf("expected restaurant %s got %v", restaurantID, captured.RestaurantID)
	}
}

func TestAuthSuperadminHasNoRestaurant(t *testing.T) {
	t.Parallel()
	token := mintTestToken(t, uuid.New(), enums.UserRoleSuperadmin, nil)

	var captured restaurants.Actor
	handler := Auth(testJWT, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !captured.IsSuperadmin() || captured.RestaurantID != nil {
		t.Fatalf("unexpected actor %+v", captured)
	}
}

func TestAuthSessionChecks(t *testing.T) {
	t.Parallel()
	token := mintTestToken(t, uuid.New(), enums.UserRoleStaff, nil)

	cases := []struct {
		name     string
		verifier stubSessionVerifier
		want     int
	}{
		{"revoked session", stubSessionVerifier{ok: false}, http.StatusUnauthorized},
		{"store failure", stubSessionVerifier{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		handler := Auth(testJWT, tc.verifier, nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	restaurantID := uuid.New()
	gate := RequireRole(nil, enums.UserRoleOwner, enums.UserRoleStaff)(okHandler())

	cases := []struct {
		name  string
		actor *restaurants.Actor
		want  int
	}{
		{"no actor", nil, http.StatusUnauthorized},
		{"owner", &restaurants.Actor{UserID: uuid.New(), Role: enums.UserRoleOwner, RestaurantID: &restaurantID}, http.StatusOK},
		{"staff", &restaurants.Actor{UserID: uuid.New(), Role: enums.UserRoleStaff, RestaurantID: &restaurantID}, http.StatusOK},
		{"superadmin", &restaurants.Actor{UserID: uuid.New(), Role: enums.UserRoleSuperadmin}, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.actor != nil {
			req = req.WithContext(WithActor(req.Context(), *tc.actor))
		}
		resp := httptest.NewRecorder()
		gate.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func mintTestToken(t *testing.T, userID uuid.UUID, role enums.UserRole, restaurantID *uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT, time.Now().UTC(), auth.AccessTokenPayload{
		UserID:       userID,
		Role:         role,
		RestaurantID: restaurantID,
		JTI:          session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
