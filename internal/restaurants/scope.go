package restaurants

import (
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/google/uuid"
)

// Actor is the authenticated dashboard user a request acts on behalf of.
type Actor struct {
	UserID       uuid.UUID
	Role         enums.UserRole
	RestaurantID *uuid.UUID
}

// IsSuperadmin reports whether the actor may operate on any restaurant.
func (a Actor) IsSuperadmin() bool {
	return a.Role == enums.UserRoleSuperadmin
}

// ScopeRestaurant resolves which restaurant an admin request operates on.
// Superadmins must name one explicitly; owners and staff are pinned to their own.
func ScopeRestaurant(actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.IsSuperadmin() {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, pkgerrors.Invalid("restaurantId", "restaurantId is required for SUPERADMIN")
		}
		return *requested, nil
	}
	if actor.RestaurantID == nil {
		return uuid.Nil, pkgerrors.Forbidden("restaurant scope not found")
	}
	if requested != nil && *requested != *actor.RestaurantID {
		return uuid.Nil, pkgerrors.Forbidden("forbidden")
	}
	return *actor.RestaurantID, nil
}

// AssertOwnership fails with Forbidden unless the actor may touch a resource
// belonging to restaurantID.
func AssertOwnership(actor Actor, restaurantID uuid.UUID) error {
	if actor.IsSuperadmin() {
		return nil
	}
	if actor.RestaurantID == nil || *actor.RestaurantID != restaurantID {
		return pkgerrors.Forbidden("forbidden")
	}
	return nil
}
