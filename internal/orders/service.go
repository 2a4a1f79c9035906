package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/bakehouse-hq/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pointsEarner interface {
	Earn(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) (int, error)
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type service struct {
	repo            Repository
	tx              txRunner
	points          pointsEarner
	guestCustomerID uuid.UUID
}

// ServiceParams bundles the dependencies required to build an orders service.
// Points is optional; without it completed orders accrue nothing.
type ServiceParams struct {
	Repo            Repository
	Tx              txRunner
	Points          pointsEarner
	GuestCustomerID uuid.UUID
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.GuestCustomerID == uuid.Nil {
		return nil, fmt.Errorf("guest customer id required")
	}
	return &service{
		repo:            params.Repo,
		tx:              params.Tx,
		points:          params.Points,
		guestCustomerID: params.GuestCustomerID,
	}, nil
}

// Create persists the order header, items, and options in one transaction and
// sets the total from what was written. Counter staff place walk-in orders, so
// those are attributed to the shared guest account instead of the cashier.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.Caller.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: product id required", i))
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: unit price cannot be negative", i))
		}
		for j, opt := range item.Options {
			if opt.Name == "" || opt.Value == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].options[%d]: name and value required", i, j))
			}
		}
	}

	customerID := input.Caller.UserID
	if input.Caller.Role == enums.UserRoleCashier {
		customerID = s.guestCustomerID
	}

	var result CreateOrderResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.CreateOrder(ctx, &models.Order{
			CustomerID:  customerID,
			Status:      enums.OrderStatusPending,
			TotalAmount: decimal.Zero,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		total := decimal.Zero
		for _, itemInput := range input.Items {
			item, err := repo.CreateOrderItem(ctx, &models.OrderItem{
				OrderID:   order.ID,
				ProductID: itemInput.ProductID,
				Quantity:  itemInput.Quantity,
				UnitPrice: itemInput.UnitPrice,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order item")
			}

			total = total.Add(itemInput.UnitPrice.Mul(decimal.NewFromInt(int64(itemInput.Quantity))))

			if len(itemInput.Options) > 0 {
				options := make([]models.OrderItemOption, 0, len(itemInput.Options))
				for _, optInput := range itemInput.Options {
					options = append(options, models.OrderItemOption{
						OrderItemID:   item.ID,
						OptionName:    optInput.Name,
						OptionValue:   optInput.Value,
						PriceModifier: optInput.PriceModifier,
					})
					total = total.Add(optInput.PriceModifier)
				}
				if err := repo.CreateOrderItemOptions(ctx, options); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order item options")
				}
			}
		}

		if err := repo.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order total")
		}

		result = CreateOrderResult{OrderID: order.ID, TotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(orders), nil
}

// UpdateStatus overwrites the order status with any updatable value. The flow
// does not enforce transition ordering between the updatable statuses. Moving
// an order to completed credits loyalty points for its customer.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	target, err := enums.ParseUpdatableOrderStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}

	rows, err := s.repo.UpdateOrderStatus(ctx, orderID, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if target == enums.OrderStatusCompleted {
		return s.creditCompletedOrder(ctx, orderID)
	}
	return nil
}

// creditCompletedOrder accrues points on the order's customer. Guest orders
// have no account to credit, and non-positive totals earn nothing.
func (s *service) creditCompletedOrder(ctx context.Context, orderID uuid.UUID) error {
	if s.points == nil {
		return nil
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load completed order")
	}
	if order.CustomerID == s.guestCustomerID || !order.TotalAmount.IsPositive() {
		return nil
	}

	if _, err := s.points.Earn(ctx, order.CustomerID, order.ID, order.TotalAmount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit loyalty points")
	}
	return nil
}
