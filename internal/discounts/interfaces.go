package discounts

import (
	"context"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for discount tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
	FindOrderDiscount(ctx context.Context, orderID uuid.UUID) (*models.OrderDiscount, error)
	CreateOrderDiscount(ctx context.Context, link *models.OrderDiscount) (*models.OrderDiscount, error)
}
