package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
)

// Discount is a redeemable code. StartsAt/EndsAt bound the validity window;
// a NULL bound leaves that side open.
type Discount struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string             `gorm:"column:code;type:text;not null;uniqueIndex"`
	DiscountType enums.DiscountType `gorm:"column:discount_type;type:discount_type_enum;not null"`
	Amount       decimal.Decimal    `gorm:"column:amount;type:numeric(10,2);not null"`
	MinSpend     decimal.Decimal    `gorm:"column:min_spend;type:numeric(10,2);not null"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	StartsAt     *time.Time         `gorm:"column:starts_at"`
	EndsAt       *time.Time         `gorm:"column:ends_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
