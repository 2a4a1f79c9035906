package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemOption is a customization applied to an order item, e.g.
// {"size": "large"} with a price modifier. The modifier may be zero or
// negative.
type OrderItemOption struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID   uuid.UUID       `gorm:"column:order_item_id;type:uuid;not null"`
	OptionName    string          `gorm:"column:option_name;type:text;not null"`
	OptionValue   string          `gorm:"column:option_value;type:text;not null"`
	PriceModifier decimal.Decimal `gorm:"column:price_modifier;type:numeric(10,2);not null"`
}
