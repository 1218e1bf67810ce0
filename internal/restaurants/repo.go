package restaurants

import (
	"context"
	"errors"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists restaurants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context) ([]models.Restaurant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a restaurants repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where(query, arg).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) List(ctx context.Context) ([]models.Restaurant, error) {
	var rows []models.Restaurant
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
