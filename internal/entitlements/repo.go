package entitlements

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the read surface the resolver consumes. Lookups return nil, nil
// when nothing matches.
type Store interface {
	FindFeatureByKey(ctx context.Context, key enums.FeatureKey) (*models.Feature, error)
	FindOverride(ctx context.Context, restaurantID, featureID uuid.UUID) (*models.FeatureOverride, error)
	FindActiveSubscription(ctx context.Context, restaurantID uuid.UUID, now time.Time) (*models.Subscription, error)
	IsPlanFeatureGranted(ctx context.Context, planID, featureID uuid.UUID) (bool, error)
}

// Repository handles feature catalog, plan, subscription and override persistence.
type Repository interface {
	Store
	WithTx(tx *gorm.DB) Repository
	ListFeatures(ctx context.Context) ([]models.Feature, error)
	UpsertFeature(ctx context.Context, key enums.FeatureKey, description *string) (*models.Feature, error)
	FindPlanByKey(ctx context.Context, key string) (*models.Plan, error)
	UpsertPlan(ctx context.Context, plan *models.Plan) (*models.Plan, error)
	GrantPlanFeature(ctx context.Context, planID, featureID uuid.UUID) error
	ListPlans(ctx context.Context) ([]models.Plan, error)
	ListPlanFeatureKeys(ctx context.Context) (map[uuid.UUID][]enums.FeatureKey, error)
	CreateSubscription(ctx context.Context, subscription *models.Subscription) error
	ListSubscriptions(ctx context.Context, restaurantID uuid.UUID) ([]models.Subscription, error)
	UpsertOverride(ctx context.Context, override *models.FeatureOverride) error
	DeleteOverride(ctx context.Context, restaurantID, featureID uuid.UUID) (bool, error)
	ListOverrides(ctx context.Context, restaurantID uuid.UUID) ([]OverrideRow, error)
	RestaurantExists(ctx context.Context, restaurantID uuid.UUID) (bool, error)
}

// OverrideRow is an override joined with its feature key.
type OverrideRow struct {
	FeatureKey enums.FeatureKey
	Enabled    bool
	UpdatedAt  time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an entitlements repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindFeatureByKey(ctx context.Context, key enums.FeatureKey) (*models.Feature, error) {
	var feature models.Feature
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&feature).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feature, nil
}

func (r *repository) FindOverride(ctx context.Context, restaurantID, featureID uuid.UUID) (*models.FeatureOverride, error) {
	var override models.FeatureOverride
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND feature_id = ?", restaurantID, featureID).
		First(&override).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

// FindActiveSubscription returns the entitling subscription whose window
// contains now, preferring the latest start.
func (r *repository) FindActiveSubscription(ctx context.Context, restaurantID uuid.UUID, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Where("status IN ?", enums.EntitlingSubscriptionStatuses).
		Where("starts_at <= ? AND ends_at > ?", now.UTC(), now.UTC()).
		Order("starts_at DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) IsPlanFeatureGranted(ctx context.Context, planID, featureID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PlanFeature{}).
		Where("plan_id = ? AND feature_id = ?", planID, featureID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	var features []models.Feature
	if err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *repository) UpsertFeature(ctx context.Context, key enums.FeatureKey, description *string) (*models.Feature, error) {
	feature := models.Feature{Key: key, Description: description}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&feature).Error; err != nil {
		return nil, err
	}
	return r.FindFeatureByKey(ctx, key)
}

func (r *repository) FindPlanByKey(ctx context.Context, key string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) UpsertPlan(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(plan).Error; err != nil {
		return nil, err
	}
	return r.FindPlanByKey(ctx, plan.Key)
}

func (r *repository) GrantPlanFeature(ctx context.Context, planID, featureID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PlanFeature{PlanID: planID, FeatureID: featureID}).Error
}

func (r *repository) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.WithContext(ctx).
		Order("monthly_price ASC, key ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) ListPlanFeatureKeys(ctx context.Context) (map[uuid.UUID][]enums.FeatureKey, error) {
	var rows []struct {
		PlanID uuid.UUID
		Key    enums.FeatureKey
	}
	if err := r.db.WithContext(ctx).
		Table("plan_features").
		Select("plan_features.plan_id AS plan_id, features.key AS key").
		Joins("JOIN features ON features.id = plan_features.feature_id").
		Order("features.key ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]enums.FeatureKey)
	for _, row := range rows {
		out[row.PlanID] = append(out[row.PlanID], row.Key)
	}
	return out, nil
}

func (r *repository) CreateSubscription(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(subscription).Error
}

func (r *repository) ListSubscriptions(ctx context.Context, restaurantID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("restaurant_id = ?", restaurantID).
		Order("starts_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// UpsertOverride replaces the boolean for (restaurant, feature) in one statement.
func (r *repository) UpsertOverride(ctx context.Context, override *models.FeatureOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "feature_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(override).Error
}

func (r *repository) DeleteOverride(ctx context.Context, restaurantID, featureID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND feature_id = ?", restaurantID, featureID).
		Delete(&models.FeatureOverride{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListOverrides(ctx context.Context, restaurantID uuid.UUID) ([]OverrideRow, error) {
	var rows []OverrideRow
	if err := r.db.WithContext(ctx).
		Table("restaurant_feature_overrides").
		Select("features.key AS feature_key, restaurant_feature_overrides.enabled AS enabled, restaurant_feature_overrides.updated_at AS updated_at").
		Joins("JOIN features ON features.id = restaurant_feature_overrides.feature_id").
		Where("restaurant_feature_overrides.restaurant_id = ?", restaurantID).
		Order("features.key ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) RestaurantExists(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
