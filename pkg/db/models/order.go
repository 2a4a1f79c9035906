package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
)

// Order is the aggregate root for a placed order. TotalAmount is derived
// data: after the owning transaction commits it must equal the sum of
// quantity*unit_price over the items, plus all option price modifiers, minus
// any applied discounts.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:pending"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}
