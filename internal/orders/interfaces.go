package orders

import (
	"context"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/angelmondragon/menuflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their snapshot rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderPage is one newest-first page of orders.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}
