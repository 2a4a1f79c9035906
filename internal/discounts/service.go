package discounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakehouse-hq/bakehouse-backend/internal/orders"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/db"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/bakehouse-hq/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const invalidDiscountMessage = "invalid or expired discount"

var percentBase = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ApplyResult reports the outcome of applying a discount to an order.
type ApplyResult struct {
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NewTotal       decimal.Decimal `json:"new_total"`
}

// Service applies discount codes to orders.
type Service interface {
	Apply(ctx context.Context, orderID uuid.UUID, code string) (*ApplyResult, error)
}

type service struct {
	repo   Repository
	orders orders.Repository
	tx     txRunner
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a discounts service.
type ServiceParams struct {
	Repo      Repository
	OrderRepo orders.Repository
	Tx        txRunner
	Now       func() time.Time
}

// NewService builds a discounts service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		orders: params.OrderRepo,
		tx:     params.Tx,
		now:    now,
	}, nil
}

// Apply validates the code against the order and, inside one transaction,
// records the link and decrements the order total. At most one discount can be
// applied to an order; the total is not clamped at zero.
func (s *service) Apply(ctx context.Context, orderID uuid.UUID, code string) (*ApplyResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code required")
	}

	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, invalidDiscountMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load discount")
	}
	if !s.isRedeemable(discount) {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, invalidDiscountMessage)
	}

	var result ApplyResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		order, err := orderRepo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if order.TotalAmount.LessThan(discount.MinSpend) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "minimum spend not met")
		}

		if _, err := repo.FindOrderDiscount(ctx, orderID); err == nil {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "discount already applied to order")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing discount")
		}

		amount := discountAmount(discount, order.TotalAmount)
		if _, err := repo.CreateOrderDiscount(ctx, &models.OrderDiscount{
			OrderID:        orderID,
			DiscountID:     discount.ID,
			DiscountAmount: amount,
		}); err != nil {
			// Loser of a concurrent apply race trips the unique index.
			if db.IsUniqueViolation(err, "order_discounts_order_id_key") {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "discount already applied to order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record order discount")
		}

		newTotal := order.TotalAmount.Sub(amount)
		if err := orderRepo.UpdateOrderTotal(ctx, orderID, newTotal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order total")
		}

		result = ApplyResult{DiscountAmount: amount, NewTotal: newTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) isRedeemable(discount *models.Discount) bool {
	if !discount.IsActive {
		return false
	}
	now := s.now()
	if discount.StartsAt != nil && now.Before(*discount.StartsAt) {
		return false
	}
	if discount.EndsAt != nil && now.After(*discount.EndsAt) {
		return false
	}
	return true
}

func discountAmount(discount *models.Discount, total decimal.Decimal) decimal.Decimal {
	if discount.DiscountType == enums.DiscountTypePercentage {
		return total.Mul(discount.Amount).Div(percentBase).Round(2)
	}
	return discount.Amount
}
