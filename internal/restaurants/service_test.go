package restaurants

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/availability"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/security"
	"github.com/angelmondragon/menuflow-backend/pkg/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type serviceFixture struct {
	conn *gorm.DB
	svc  Service
	now  time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	conn := dbtest.Open(t)
	billing := entitlements.NewRepository(conn)
	require.NoError(t, entitlements.SeedCatalog(context.Background(), billing))

	resolver, err := entitlements.NewResolver(billing)
	require.NoError(t, err)
	scheduler := availability.NewScheduler("Europe/Sofia")
	presenter, err := NewPresenter(resolver, scheduler)
	require.NoError(t, err)

	f := &serviceFixture{conn: conn, now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	svc, err := NewService(ServiceParams{
		TX:             db.NewFromConn(conn),
		Repo:           NewRepository(conn),
		Users:          users.NewRepository(conn),
		Billing:        billing,
		Presenter:      presenter,
		Scheduler:      scheduler,
		PasswordConfig: testPasswordConfig,
		Ordering:       config.OrderingConfig{DefaultTimezone: "Europe/Sofia", TrialDays: 14},
		Clock:          func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *serviceFixture) provision(t *testing.T, slug string) *CreateWithOwnerResult {
	t.Helper()
	result, err := f.svc.CreateWithOwner(context.Background(), CreateWithOwnerInput{
		Email:          slug + "@example.com",
		Password:       "correct-horse",
		RestaurantName: "Restaurant " + slug,
		Slug:           slug,
	})
	require.NoError(t, err)
	return result
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, code), "expected %s, got %v", code, err)
}

func TestCreateWithOwnerStartsTrial(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	result := f.provision(t, "bistro")
	require.Equal(t, "bistro", result.Restaurant.Slug)
	require.Equal(t, enums.UserRoleOwner, result.Owner.Role)
	require.NotNil(t, result.Owner.RestaurantID)
	require.Equal(t, result.Restaurant.ID, *result.Owner.RestaurantID)

	public, err := f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.True(t, public.Features[enums.FeatureOrdering])
	require.True(t, public.Ordering.Visible)
	require.Equal(t, "Europe/Sofia", public.Ordering.Timezone)
	require.True(t, public.Ordering.AvailableNow)
	require.Equal(t, enums.CurrencyEUR, public.Currency.Primary)

	f.now = f.now.AddDate(0, 0, 15)
	public, err = f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.False(t, public.Features[enums.FeatureOrdering], "trial should have expired")
}

func TestCreateWithOwnerConflicts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.provision(t, "bistro")

	_, err := f.svc.CreateWithOwner(ctx, CreateWithOwnerInput{Email: "BISTRO@example.com", Password: "correct-horse", RestaurantName: "Other", Slug: "other"})
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = f.svc.CreateWithOwner(ctx, CreateWithOwnerInput{Email: "new@example.com", Password: "correct-horse", RestaurantName: "Other", Slug: "bistro"})
	requireCode(t, err, pkgerrors.CodeConflict)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetPublicUnknownSlug(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.GetPublic(context.Background(), "nope")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateSettingsValidatesAtIngress(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.provision(t, "bistro").Restaurant.ID

	badTZ := "Mars/Olympus"
	_, err := f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{OrderingTimezone: &badTZ})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{OrderingSchedule: json.RawMessage(`{"days":{"mon":{"enabled":true,"start":"25:00","end":"26:00"}}}`)})
	requireCode(t, err, pkgerrors.CodeValidation)
	typed := pkgerrors.As(err)
	details := typed.Details().([]pkgerrors.FieldError)
	require.Equal(t, "orderingSchedule", details[0].Field)
}

func TestUpdateSettingsStoresScheduleAndClearsIt(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.provision(t, "bistro").Restaurant.ID

	raw := `{"days":{
		"mon":{"enabled":true,"start":"10:00","end":"12:00"},
		"tue":{"enabled":false,"start":null,"end":null},
		"wed":{"enabled":false,"start":null,"end":null},
		"thu":{"enabled":false,"start":null,"end":null},
		"fri":{"enabled":false,"start":null,"end":null},
		"sat":{"enabled":false,"start":null,"end":null},
		"sun":{"enabled":false,"start":null,"end":null}}}`
	hidden := false
	tz := "UTC"
	settings, err := f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{
		OrderingVisible:  &hidden,
		OrderingTimezone: &tz,
		OrderingSchedule: json.RawMessage(raw),
	})
	require.NoError(t, err)
	require.False(t, settings.OrderingVisible)
	require.Equal(t, "UTC", settings.OrderingTimezone)
	require.NotNil(t, settings.OrderingSchedule)
	require.True(t, settings.OrderingSchedule.Days[0].Enabled)

	// 2026-05-04 is a Monday; 09:00 UTC is before opening.
	public, err := f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.False(t, public.Ordering.AvailableNow)
	require.NotNil(t, public.Ordering.NextOpenAt)
	require.Equal(t, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC), *public.Ordering.NextOpenAt)

	settings, err = f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{OrderingSchedule: json.RawMessage(`null`)})
	require.NoError(t, err)
	require.Nil(t, settings.OrderingSchedule)
	require.False(t, settings.OrderingVisible, "untouched fields must persist")
}

func TestUpdateSettingsRejectsNullEnabledDay(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.provision(t, "bistro").Restaurant.ID

	raw := `{"days":{
		"mon":{"enabled":true,"start":"10:00","end":"12:00"},
		"tue":{"enabled":null,"start":null,"end":null},
		"wed":{"enabled":false,"start":null,"end":null},
		"thu":{"enabled":false,"start":null,"end":null},
		"fri":{"enabled":false,"start":null,"end":null},
		"sat":{"enabled":false,"start":null,"end":null},
		"sun":{"enabled":false,"start":null,"end":null}}}`
	_, err := f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{OrderingSchedule: json.RawMessage(raw)})
	requireCode(t, err, pkgerrors.CodeValidation)
	details := pkgerrors.As(err).Details().([]pkgerrors.FieldError)
	require.Equal(t, "orderingSchedule", details[0].Field)

	public, err := f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.True(t, public.Ordering.AvailableNow, "rejected schedule must not be stored")
	require.Nil(t, public.Ordering.NextOpenAt)
}

func TestUpdateSettingsCurrency(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	id := f.provision(t, "bistro").Restaurant.ID

	enabled := true
	cutover := f.now.Add(time.Hour)
	_, err := f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{SecondaryEnabled: &enabled, BGNDisabledAt: &cutover})
	require.NoError(t, err)

	public, err := f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.True(t, public.Currency.BGNActiveNow)

	f.now = f.now.Add(2 * time.Hour)
	public, err = f.svc.GetPublic(ctx, "bistro")
	require.NoError(t, err)
	require.False(t, public.Currency.BGNActiveNow)

	later := f.now.Add(24 * time.Hour)
	_, err = f.svc.UpdateSettings(ctx, id, UpdateSettingsInput{BGNDisabledAt: &later})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateRestaurant(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	first := f.provision(t, "bistro").Restaurant.ID
	f.provision(t, "tavern")

	name := "Bistro Deluxe"
	summary, err := f.svc.Update(ctx, first, UpdateRestaurantInput{
		Name:    &name,
		LogoURL: types.Some("https://cdn.example.com/logo.png"),
	})
	require.NoError(t, err)
	require.Equal(t, name, summary.Name)
	require.NotNil(t, summary.LogoURL)

	summary, err = f.svc.Update(ctx, first, UpdateRestaurantInput{LogoURL: types.Null[string]()})
	require.NoError(t, err)
	require.Nil(t, summary.LogoURL)

	taken := "tavern"
	_, err = f.svc.Update(ctx, first, UpdateRestaurantInput{Slug: &taken})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestOwnersAndPasswordReset(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	result := f.provision(t, "bistro")

	owners, err := f.svc.ListOwners(ctx, result.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, "bistro@example.com", owners[0].Email)

	_, err = f.svc.ResetOwnerPassword(ctx, result.Owner.ID, "brand-new-secret")
	require.NoError(t, err)

	stored, err := users.NewRepository(f.conn).FindByID(ctx, result.Owner.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("brand-new-secret", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	staff, err := users.NewRepository(f.conn).Create(ctx, users.CreateUserDTO{
		Email:        "staff@example.com",
		PasswordHash: stored.PasswordHash,
		Role:         enums.UserRoleStaff,
		RestaurantID: &result.Restaurant.ID,
	})
	require.NoError(t, err)
	_, err = f.svc.ResetOwnerPassword(ctx, staff.ID, "brand-new-secret")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.ResetOwnerPassword(ctx, result.Owner.ID, "short")
	requireCode(t, err, pkgerrors.CodeValidation)
}
