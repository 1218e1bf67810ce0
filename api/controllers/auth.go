package controllers

import (
	"net/http"

	"github.com/angelmondragon/menuflow-backend/api/middleware"
	"github.com/angelmondragon/menuflow-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/menuflow-backend/pkg/auth"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

const authService = "auth service"

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(authService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		body, err := decode[auth.LoginRequest](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.Login(r.Context(), body))
	})
}

// AuthRegisterOwner creates a restaurant on a trial together with its owner
// and signs the owner in.
func AuthRegisterOwner(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(authService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		body, err := decode[auth.RegisterOwnerRequest](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.RegisterOwner(r.Context(), body))
	})
}

// AuthRefresh rotates the refresh token bound to the presented access token,
// which may already be expired.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(authService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		body, err := decode[auth.RefreshRequest](r)
		if err != nil {
			return 0, nil, err
		}
		token, err := middleware.BearerToken(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.Refresh(r.Context(), token, body.RefreshToken))
	})
}

// AuthLogout revokes the refresh session named by the token's jti. Expired
// tokens are accepted so a client can always sign out.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return serve(authService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		token, err := middleware.BearerToken(r)
		if err != nil {
			return 0, nil, err
		}
		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		if claims.ID == "" {
			return 0, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
		}
		return ok(map[string]string{"status": "logged_out"}, svc.Logout(r.Context(), claims.ID))
	})
}

// AuthMe returns the signed-in user.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(authService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, err := requestActor(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.Me(r.Context(), actor.UserID))
	})
}
