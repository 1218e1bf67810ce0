package users

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := models.Restaurant{Name: "Bistro", Slug: "bistro", OrderingTimezone: "Europe/Sofia"}
	require.NoError(t, conn.Create(&restaurant).Error)

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Owner@Example.com ",
		PasswordHash: "hash",
		Role:         enums.UserRoleOwner,
		RestaurantID: &restaurant.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", user.Email)

	found, err := repo.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	require.True(t, db.IsNotFound(err))

	_, err = repo.Create(ctx, CreateUserDTO{Email: "owner@example.com", PasswordHash: "x", Role: enums.UserRoleStaff})
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""))

	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", reloaded.PasswordHash)
	require.NotNil(t, reloaded.LastLoginAt)
	require.True(t, reloaded.LastLoginAt.Equal(at))
}

func TestListByRestaurantFiltersRole(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := models.Restaurant{Name: "Bistro", Slug: "bistro", OrderingTimezone: "Europe/Sofia"}
	require.NoError(t, conn.Create(&restaurant).Error)

	_, err := repo.Create(ctx, CreateUserDTO{Email: "a@example.com", PasswordHash: "h", Role: enums.UserRoleOwner, RestaurantID: &restaurant.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "b@example.com", PasswordHash: "h", Role: enums.UserRoleStaff, RestaurantID: &restaurant.ID})
	require.NoError(t, err)

	owners, err := repo.ListByRestaurant(ctx, restaurant.ID, enums.UserRoleOwner)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, "a@example.com", owners[0].Email)
}

func TestEmailTakenAndMissingRows(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	taken, err := repo.EmailTaken(ctx, "root@example.com")
	require.NoError(t, err)
	require.False(t, taken)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "root@example.com", PasswordHash: "h", Role: enums.UserRoleSuperadmin})
	require.NoError(t, err)

	taken, err = repo.EmailTaken(ctx, " ROOT@example.com")
	require.NoError(t, err)
	require.True(t, taken)

	found, err := repo.FindByEmail(ctx, "Root@Example.com")
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleSuperadmin, found.Role)

	err = repo.UpdatePasswordHash(ctx, uuid.New(), "x")
	require.True(t, db.IsNotFound(err))
}
