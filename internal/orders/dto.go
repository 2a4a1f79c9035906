package orders

import (
	"time"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemOptionInput is one customization on a requested line.
type OrderItemOptionInput struct {
	Name          string          `json:"name" validate:"required"`
	Value         string          `json:"value" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID              `json:"product_id" validate:"required"`
	Quantity  int                    `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal        `json:"unit_price"`
	Options   []OrderItemOptionInput `json:"options" validate:"dive"`
}

// Caller identifies who is placing the order.
type Caller struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// CreateOrderInput carries everything required to place an order.
type CreateOrderInput struct {
	Caller Caller
	Items  []OrderItemInput
}

// CreateOrderResult is returned after an order is placed.
type CreateOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderItemOptionDTO mirrors a stored option.
type OrderItemOptionDTO struct {
	Name          string          `json:"name"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// OrderItemDTO mirrors a stored line item.
type OrderItemDTO struct {
	ID        uuid.UUID            `json:"id"`
	ProductID uuid.UUID            `json:"product_id"`
	Quantity  int                  `json:"quantity"`
	UnitPrice decimal.Decimal      `json:"unit_price"`
	Options   []OrderItemOptionDTO `json:"options"`
}

// OrderDTO is the public shape of an order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemDTO    `json:"items"`
}

// FromModel maps the persistence model onto the public DTO.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		options := make([]OrderItemOptionDTO, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, OrderItemOptionDTO{
				Name:          opt.OptionName,
				Value:         opt.OptionValue,
				PriceModifier: opt.PriceModifier,
			})
		}
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Options:   options,
		})
	}
	return &OrderDTO{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}

// FromModels maps a slice of orders preserving input order.
func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
