package menu

import (
	"context"
	"errors"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists categories, items and dining tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, restaurantID uuid.UUID, categoryID *uuid.UUID) ([]models.Item, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	FindItemsByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID, availableOnly bool) ([]models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]models.DiningTable, error)
	FindTable(ctx context.Context, id uuid.UUID) (*models.DiningTable, error)
	FindTableByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*models.DiningTable, error)
	CreateTable(ctx context.Context, table *models.DiningTable) error
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

const displayOrder = "sort_order ASC, created_at ASC"

func (r *repository) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order(displayOrder).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &category, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCategory removes the category together with its items. Run it inside a transaction.
func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("category_id = ?", id).Delete(&models.Item{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func (r *repository) ListItems(ctx context.Context, restaurantID uuid.UUID, categoryID *uuid.UUID) ([]models.Item, error) {
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var rows []models.Item
	err := query.Order(displayOrder).Find(&rows).Error
	return rows, err
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &item, nil
}

// FindItemsByIDs returns the subset of ids that belong to the restaurant,
// optionally restricted to items currently marked available.
func (r *repository) FindItemsByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID, availableOnly bool) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}
	query := r.db.WithContext(ctx).Where("restaurant_id = ? AND id IN ?", restaurantID, ids)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	var rows []models.Item
	err := query.Find(&rows).Error
	return rows, err
}

func (r *repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

func (r *repository) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]models.DiningTable, error) {
	var rows []models.DiningTable
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindTable(ctx context.Context, id uuid.UUID) (*models.DiningTable, error) {
	var table models.DiningTable
	if err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &table, nil
}

func (r *repository) FindTableByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*models.DiningTable, error) {
	var table models.DiningTable
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, code).
		First(&table).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &table, nil
}

func (r *repository) CreateTable(ctx context.Context, table *models.DiningTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *repository) DeleteTable(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DiningTable{}).Error
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
