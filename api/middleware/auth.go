package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/menuflow-backend/api/responses"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	pkgAuth "github.com/angelmondragon/menuflow-backend/pkg/auth"
	"github.com/angelmondragon/menuflow-backend/pkg/auth/session"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

// Auth validates a bearer token and seeds the request context with the actor.
// When verifier is nil the session lookup is skipped and any unexpired token
// is accepted.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, pkgAuth.ErrTokenExpired) {
					msg = "token expired"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msg))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			actor := restaurants.Actor{
				UserID:       claims.UserID,
				Role:         claims.Role,
				RestaurantID: claims.RestaurantID,
			}
			ctx := WithActor(r.Context(), actor)

			ctx = logg.WithUserID(ctx, claims.UserID)
			ctx = logg.WithActorRole(ctx, string(claims.Role))
			if claims.RestaurantID != nil {
				ctx = logg.WithRestaurantID(ctx, *claims.RestaurantID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
