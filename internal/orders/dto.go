package orders

import (
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateOrderInput is the anonymous checkout request. Prices are never
// accepted from the client.
type CreateOrderInput struct {
	Type            enums.OrderType `json:"type" validate:"required,oneof=TABLE DELIVERY TAKEAWAY"`
	TableCode       *string         `json:"tableCode" validate:"omitempty,max=40"`
	DeliveryAddress *string         `json:"deliveryAddress" validate:"omitempty,max=500"`
	Phone           *string         `json:"phone" validate:"omitempty,max=40"`
	CustomerName    *string         `json:"customerName" validate:"omitempty,max=120"`
	Note            *string         `json:"note" validate:"omitempty,max=500"`
	Items           []CartLine      `json:"items" validate:"required,min=1,dive"`
}

// CartLine is one requested item and quantity.
type CartLine struct {
	ItemID uuid.UUID `json:"itemId" validate:"required"`
	Qty    int       `json:"qty" validate:"required,min=1,max=99"`
	Note   *string   `json:"note" validate:"omitempty,max=500"`
}

// UpdateStatusInput carries the admin status change.
type UpdateStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required,oneof=NEW IN_PROGRESS READY COMPLETED"`
}

type TotalBlock struct {
	TotalCents int64 `json:"totalCents"`
}

// Totals omits BGN unless every line carried a BGN price.
type Totals struct {
	EUR TotalBlock  `json:"EUR"`
	BGN *TotalBlock `json:"BGN,omitempty"`
}

type TableRef struct {
	Code string  `json:"code"`
	Name *string `json:"name"`
}

// Summary is the receipt returned by checkout and the row shape of admin lists.
type Summary struct {
	ID              uuid.UUID         `json:"id"`
	Type            enums.OrderType   `json:"type"`
	Status          enums.OrderStatus `json:"status"`
	Table           *TableRef         `json:"table"`
	DeliveryAddress *string           `json:"deliveryAddress"`
	Phone           *string           `json:"phone"`
	CustomerName    *string           `json:"customerName"`
	Note            *string           `json:"note"`
	CreatedAt       time.Time         `json:"createdAt"`
	Totals          Totals            `json:"totals"`
}

type UnitCents struct {
	Cents int64 `json:"cents"`
}

type UnitPrice struct {
	EUR UnitCents  `json:"EUR"`
	BGN *UnitCents `json:"BGN,omitempty"`
}

// LineDTO is one persisted snapshot row.
type LineDTO struct {
	ID        uuid.UUID  `json:"id"`
	ItemID    *uuid.UUID `json:"itemId"`
	Name      string     `json:"name"`
	Qty       int        `json:"qty"`
	UnitPrice UnitPrice  `json:"unitPrice"`
	Note      *string    `json:"note"`
}

// Detail is the admin view of one order with its snapshot rows.
type Detail struct {
	Summary
	UpdatedAt  time.Time `json:"updatedAt"`
	OrderItems []LineDTO `json:"orderItems"`
}

// List is a page of admin order summaries.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

func toSummary(o models.Order) Summary {
	summary := Summary{
		ID:              o.ID,
		Type:            o.Type,
		Status:          o.Status,
		DeliveryAddress: o.DeliveryAddress,
		Phone:           o.Phone,
		CustomerName:    o.CustomerName,
		Note:            o.Note,
		CreatedAt:       o.CreatedAt,
		Totals:          Totals{EUR: TotalBlock{TotalCents: o.TotalEURCents}},
	}
	if o.Table != nil {
		summary.Table = &TableRef{Code: o.Table.Code, Name: o.Table.Name}
	}
	if o.TotalBGNCents != nil {
		summary.Totals.BGN = &TotalBlock{TotalCents: *o.TotalBGNCents}
	}
	return summary
}

func toDetail(o models.Order) Detail {
	lines := make([]LineDTO, 0, len(o.Items))
	for _, item := range o.Items {
		line := LineDTO{
			ID:        item.ID,
			ItemID:    item.ItemID,
			Name:      item.NameSnapshot,
			Qty:       item.Qty,
			UnitPrice: UnitPrice{EUR: UnitCents{Cents: item.UnitPriceEURCents}},
			Note:      item.Note,
		}
		if item.UnitPriceBGNCents != nil {
			line.UnitPrice.BGN = &UnitCents{Cents: *item.UnitPriceBGNCents}
		}
		lines = append(lines, line)
	}
	return Detail{Summary: toSummary(o), UpdatedAt: o.UpdatedAt, OrderItems: lines}
}
