package restaurants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/availability"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	"github.com/angelmondragon/menuflow-backend/pkg/config"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/menuflow-backend/pkg/db/types"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service covers the public restaurant read, owner settings and the
// superadmin tenant management operations.
type Service interface {
	Resolve(ctx context.Context, slug string) (*models.Restaurant, error)
	GetPublic(ctx context.Context, slug string) (*PublicRestaurant, error)
	GetSettings(ctx context.Context, restaurantID uuid.UUID) (*Settings, error)
	UpdateSettings(ctx context.Context, restaurantID uuid.UUID, input UpdateSettingsInput) (*Settings, error)
	List(ctx context.Context) ([]Summary, error)
	Update(ctx context.Context, restaurantID uuid.UUID, input UpdateRestaurantInput) (*Summary, error)
	CreateWithOwner(ctx context.Context, input CreateWithOwnerInput) (*CreateWithOwnerResult, error)
	ListOwners(ctx context.Context, restaurantID uuid.UUID) ([]users.UserDTO, error)
	ResetOwnerPassword(ctx context.Context, ownerID uuid.UUID, newPassword string) (*users.UserDTO, error)
}

// ServiceParams bundles the restaurants service dependencies.
type ServiceParams struct {
	TX             txRunner
	Repo           Repository
	Users          *users.Repository
	Billing        entitlements.Repository
	Presenter      *Presenter
	Scheduler      *availability.Scheduler
	PasswordConfig config.PasswordConfig
	Ordering       config.OrderingConfig
	Clock          func() time.Time
	Logger         *logger.Logger
}

type service struct {
	tx          txRunner
	repo        Repository
	users       *users.Repository
	billing     entitlements.Repository
	presenter   *Presenter
	scheduler   *availability.Scheduler
	passwordCfg config.PasswordConfig
	ordering    config.OrderingConfig
	clock       func() time.Time
	logg        *logger.Logger
}

// NewService builds the restaurants service.
func NewService(params ServiceParams) (Service, error) {
	if params.TX == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("entitlements repository required")
	}
	if params.Presenter == nil {
		return nil, fmt.Errorf("presenter required")
	}
	scheduler := params.Scheduler
	if scheduler == nil {
		scheduler = availability.NewScheduler(params.Ordering.DefaultTimezone)
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		tx:          params.TX,
		repo:        params.Repo,
		users:       params.Users,
		billing:     params.Billing,
		presenter:   params.Presenter,
		scheduler:   scheduler,
		passwordCfg: params.PasswordConfig,
		ordering:    params.Ordering,
		clock:       clock,
		logg:        params.Logger,
	}, nil
}

func (s *service) Resolve(ctx context.Context, slug string) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find restaurant")
	}
	if restaurant == nil {
		return nil, pkgerrors.NotFound("restaurant")
	}
	return restaurant, nil
}

func (s *service) GetPublic(ctx context.Context, slug string) (*PublicRestaurant, error) {
	restaurant, err := s.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	view, err := s.presenter.Present(ctx, *restaurant, s.clock().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compose restaurant")
	}
	return view, nil
}

func (s *service) GetSettings(ctx context.Context, restaurantID uuid.UUID) (*Settings, error) {
	restaurant, err := s.load(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	settings := toSettings(*restaurant)
	return &settings, nil
}

// UpdateSettings validates the schedule and timezone at ingress so that the
// availability scheduler only ever sees well-formed stored values.
func (s *service) UpdateSettings(ctx context.Context, restaurantID uuid.UUID, input UpdateSettingsInput) (*Settings, error) {
	restaurant, err := s.load(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.OrderingVisible != nil {
		updates["ordering_visible"] = *input.OrderingVisible
	}
	if input.OrderingTimezone != nil {
		tz := strings.TrimSpace(*input.OrderingTimezone)
		if tz == "" || !s.scheduler.ValidTimezone(tz) {
			return nil, pkgerrors.Invalid("orderingTimezone", "unknown IANA timezone")
		}
		updates["ordering_timezone"] = tz
	}
	if raw := bytes.TrimSpace(input.OrderingSchedule); len(raw) > 0 {
		if bytes.Equal(raw, []byte("null")) {
			updates["ordering_schedule"] = dbtypes.JSONDocument(nil)
		} else {
			schedule, err := availability.ParseSchedule(raw)
			if err != nil {
				return nil, pkgerrors.Invalid("orderingSchedule", err.Error())
			}
			canonical, err := json.Marshal(schedule)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode schedule")
			}
			updates["ordering_schedule"] = dbtypes.JSONDocument(canonical)
		}
	}
	if input.SecondaryEnabled != nil {
		updates["currency_secondary_enabled"] = *input.SecondaryEnabled
	}
	if input.BGNDisabledAt != nil {
		// a cutover that already happened is permanent
		current := restaurant.BGNDisabledAt
		if current != nil && !current.After(s.clock()) && !current.Equal(*input.BGNDisabledAt) {
			return nil, pkgerrors.Invalid("bgnDisabledAt", "BGN cutover already passed")
		}
		updates["bgn_disabled_at"] = input.BGNDisabledAt.UTC()
	}

	if err := s.repo.Update(ctx, restaurantID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update settings")
	}
	return s.GetSettings(ctx, restaurantID)
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSummary(row))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, restaurantID uuid.UUID, input UpdateRestaurantInput) (*Summary, error) {
	if _, err := s.load(ctx, restaurantID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		updates["slug"] = strings.TrimSpace(*input.Slug)
	}
	input.LogoURL.Apply(updates, "logo_url")
	input.CoverImageURL.Apply(updates, "cover_image_url")

	if err := s.repo.Update(ctx, restaurantID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	restaurant, err := s.load(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	summary := toSummary(*restaurant)
	return &summary, nil
}

// CreateWithOwner creates the restaurant, its owner and the trial
// subscription in one transaction.
func (s *service) CreateWithOwner(ctx context.Context, input CreateWithOwnerInput) (*CreateWithOwnerResult, error) {
	email := users.NormalizeEmail(input.Email)
	slug := strings.TrimSpace(input.Slug)

	passwordHash, err := hashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()

	var result CreateWithOwnerResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		restaurantRepo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		taken, err := userRepo.EmailTaken(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
		}
		existing, err := restaurantRepo.FindBySlug(ctx, slug)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "slug already exists")
		}

		restaurant := &models.Restaurant{
			Name:             strings.TrimSpace(input.RestaurantName),
			Slug:             slug,
			CurrencyPrimary:  enums.CurrencyEUR,
			OrderingVisible:  true,
			OrderingTimezone: s.defaultTimezone(),
		}
		if err := restaurantRepo.Create(ctx, restaurant); err != nil {
			return err
		}

		owner, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Role:         enums.UserRoleOwner,
			RestaurantID: &restaurant.ID,
		})
		if err != nil {
			return err
		}

		if _, err := entitlements.StartTrial(ctx, s.billing.WithTx(tx), restaurant.ID, now, s.ordering.TrialPeriod()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start trial")
		}

		result = CreateWithOwnerResult{
			Restaurant: toSummary(*restaurant),
			Owner:      *users.FromModel(owner),
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}

	if s.logg != nil {
		logCtx := s.logg.WithRestaurantID(ctx, result.Restaurant.ID)
		s.logg.Info(logCtx, "restaurant provisioned with trial")
	}
	return &result, nil
}

func (s *service) ListOwners(ctx context.Context, restaurantID uuid.UUID) ([]users.UserDTO, error) {
	if _, err := s.load(ctx, restaurantID); err != nil {
		return nil, err
	}
	rows, err := s.users.ListByRestaurant(ctx, restaurantID, enums.UserRoleOwner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owners")
	}
	out := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *users.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ResetOwnerPassword(ctx context.Context, ownerID uuid.UUID, newPassword string) (*users.UserDTO, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("owner")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find owner")
	}
	if owner.Role != enums.UserRoleOwner {
		return nil, pkgerrors.Invalid("ownerId", "user is not OWNER")
	}

	hash, err := hashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePasswordHash(ctx, owner.ID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return users.FromModel(owner), nil
}

func (s *service) load(ctx context.Context, restaurantID uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find restaurant")
	}
	if restaurant == nil {
		return nil, pkgerrors.NotFound("restaurant")
	}
	return restaurant, nil
}

func (s *service) defaultTimezone() string {
	if tz := strings.TrimSpace(s.ordering.DefaultTimezone); tz != "" {
		return tz
	}
	return availability.DefaultTimezone
}

func hashPassword(password string, cfg config.PasswordConfig) (string, error) {
	hash, err := security.HashPassword(password, cfg)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return "", pkgerrors.Invalid("password", err.Error())
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}
