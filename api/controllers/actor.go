package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuflow-backend/api/middleware"
	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
)

// Clock supplies "now" to handlers that resolve time-dependent state.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func requestActor(r *http.Request) (restaurants.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return restaurants.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	return actor, nil
}

// adminScope is the actor plus the optional ?restaurantId a superadmin uses
// to act on a specific tenant. Services resolve the pair.
func adminScope(r *http.Request) (restaurants.Actor, *uuid.UUID, error) {
	actor, err := requestActor(r)
	if err != nil {
		return restaurants.Actor{}, nil, err
	}
	requested, err := validators.ParseQueryUUID(r, "restaurantId")
	if err != nil {
		return restaurants.Actor{}, nil, err
	}
	return actor, requested, nil
}

// scopedRestaurant resolves adminScope down to a single restaurant id.
func scopedRestaurant(r *http.Request) (uuid.UUID, error) {
	actor, requested, err := adminScope(r)
	if err != nil {
		return uuid.Nil, err
	}
	return restaurants.ScopeRestaurant(actor, requested)
}

// actorAndID reads the actor together with a required uuid path parameter.
func actorAndID(r *http.Request, param string) (restaurants.Actor, uuid.UUID, error) {
	actor, err := requestActor(r)
	if err != nil {
		return restaurants.Actor{}, uuid.Nil, err
	}
	id, err := validators.ParseURLUUID(r, param)
	if err != nil {
		return restaurants.Actor{}, uuid.Nil, err
	}
	return actor, id, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable")
}
