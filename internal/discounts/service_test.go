package discounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bakehouse-hq/bakehouse-backend/internal/orders"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/bakehouse-hq/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeDiscountsRepo struct {
	discounts map[string]*models.Discount
	links     map[uuid.UUID]*models.OrderDiscount

	createLinkErr error
}

func newFakeDiscountsRepo() *fakeDiscountsRepo {
	return &fakeDiscountsRepo{
		discounts: make(map[string]*models.Discount),
		links:     make(map[uuid.UUID]*models.OrderDiscount),
	}
}

func (f *fakeDiscountsRepo) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeDiscountsRepo) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	if d, ok := f.discounts[code]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDiscountsRepo) FindOrderDiscount(ctx context.Context, orderID uuid.UUID) (*models.OrderDiscount, error) {
	if link, ok := f.links[orderID]; ok {
		return link, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDiscountsRepo) CreateOrderDiscount(ctx context.Context, link *models.OrderDiscount) (*models.OrderDiscount, error) {
	if f.createLinkErr != nil {
		return nil, f.createLinkErr
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	f.links[link.OrderID] = link
	return link, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) orders.Repository {
	return f
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	panic("not implemented")
}

func (f *fakeOrderRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	panic("not implemented")
}

func (f *fakeOrderRepo) CreateOrderItemOptions(ctx context.Context, options []models.OrderItemOption) error {
	panic("not implemented")
}

func (f *fakeOrderRepo) UpdateOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.TotalAmount = total
	return nil
}

func (f *fakeOrderRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if order, ok := f.orders[orderID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	panic("not implemented")
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	panic("not implemented")
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (int64, error) {
	panic("not implemented")
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func buildDiscountsService(t *testing.T, repo Repository, orderRepo orders.Repository, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		OrderRepo: orderRepo,
		Tx:        &fakeTxRunner{},
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func TestApplyPercentageDiscount(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["SUMMER10"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "SUMMER10",
		DiscountType: enums.DiscountTypePercentage,
		Amount:       mustDecimal(t, "10"),
		MinSpend:     mustDecimal(t, "5.00"),
		IsActive:     true,
		StartsAt:     timePtr(now.Add(-24 * time.Hour)),
		EndsAt:       timePtr(now.Add(24 * time.Hour)),
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "20.00")}

	svc := buildDiscountsService(t, repo, orderRepo, now)
	result, err := svc.Apply(context.Background(), orderID, "SUMMER10")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !result.DiscountAmount.Equal(mustDecimal(t, "2.00")) {
		t.Fatalf("expected discount 2.00, got %s", result.DiscountAmount)
	}
	if !result.NewTotal.Equal(mustDecimal(t, "18.00")) {
		t.Fatalf("expected new total 18.00, got %s", result.NewTotal)
	}
	if !orderRepo.orders[orderID].TotalAmount.Equal(mustDecimal(t, "18.00")) {
		t.Fatalf("expected stored total 18.00, got %s", orderRepo.orders[orderID].TotalAmount)
	}
	if repo.links[orderID] == nil {
		t.Fatal("expected order discount link persisted")
	}
}

func TestApplyFixedDiscountCanGoNegative(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["FIVEOFF"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "FIVEOFF",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "5.00"),
		MinSpend:     mustDecimal(t, "3.00"),
		IsActive:     true,
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "3.50")}

	svc := buildDiscountsService(t, repo, orderRepo, now)
	result, err := svc.Apply(context.Background(), orderID, "FIVEOFF")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.NewTotal.Equal(mustDecimal(t, "-1.50")) {
		t.Fatalf("expected total -1.50, got %s", result.NewTotal)
	}
}

func TestApplyRejectsInvalidOrExpired(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	orderID := uuid.New()

	cases := map[string]*models.Discount{
		"inactive": {
			Code:         "inactive",
			DiscountType: enums.DiscountTypeFixed,
			Amount:       mustDecimal(t, "1.00"),
			IsActive:     false,
		},
		"expired": {
			Code:         "expired",
			DiscountType: enums.DiscountTypeFixed,
			Amount:       mustDecimal(t, "1.00"),
			IsActive:     true,
			EndsAt:       timePtr(now.Add(-time.Hour)),
		},
		"not_started": {
			Code:         "not_started",
			DiscountType: enums.DiscountTypeFixed,
			Amount:       mustDecimal(t, "1.00"),
			IsActive:     true,
			StartsAt:     timePtr(now.Add(time.Hour)),
		},
	}

	for name, discount := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeDiscountsRepo()
			repo.discounts[discount.Code] = discount
			orderRepo := newFakeOrderRepo()
			orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "10.00")}

			svc := buildDiscountsService(t, repo, orderRepo, now)
			_, err := svc.Apply(context.Background(), orderID, discount.Code)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
				t.Fatalf("expected BUSINESS_RULE, got %v", err)
			}
		})
	}

	t.Run("unknown_code", func(t *testing.T) {
		svc := buildDiscountsService(t, newFakeDiscountsRepo(), newFakeOrderRepo(), now)
		_, err := svc.Apply(context.Background(), orderID, "NOPE")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
			t.Fatalf("expected BUSINESS_RULE, got %v", err)
		}
	})
}

func TestApplyMinSpendNotMet(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["BIGSPEND"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "BIGSPEND",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "2.00"),
		MinSpend:     mustDecimal(t, "50.00"),
		IsActive:     true,
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "10.00")}

	svc := buildDiscountsService(t, repo, orderRepo, now)
	_, err := svc.Apply(context.Background(), orderID, "BIGSPEND")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected BUSINESS_RULE, got %v", err)
	}
	if len(repo.links) != 0 {
		t.Fatal("expected no link persisted")
	}
}

func TestApplySecondDiscountRejected(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["ONE"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "ONE",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "1.00"),
		IsActive:     true,
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "10.00")}
	repo.links[orderID] = &models.OrderDiscount{OrderID: orderID, DiscountID: uuid.New()}

	svc := buildDiscountsService(t, repo, orderRepo, now)
	_, err := svc.Apply(context.Background(), orderID, "ONE")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected BUSINESS_RULE, got %v", err)
	}
	if !orderRepo.orders[orderID].TotalAmount.Equal(mustDecimal(t, "10.00")) {
		t.Fatal("expected total untouched")
	}
}

func TestApplyRaceLoserRejected(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["ONE"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "ONE",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "1.00"),
		IsActive:     true,
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "10.00")}
	// A concurrent apply won the insert between the existence check and ours.
	repo.createLinkErr = fmt.Errorf(`duplicate key value violates unique constraint "order_discounts_order_id_key"`)

	svc := buildDiscountsService(t, repo, orderRepo, now)
	_, err := svc.Apply(context.Background(), orderID, "ONE")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected BUSINESS_RULE, got %v", err)
	}
	if !orderRepo.orders[orderID].TotalAmount.Equal(mustDecimal(t, "10.00")) {
		t.Fatal("expected total untouched")
	}
}

func TestApplyStoreFailureIsInternal(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	orderRepo := newFakeOrderRepo()

	repo.discounts["ONE"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "ONE",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "1.00"),
		IsActive:     true,
	}
	orderID := uuid.New()
	orderRepo.orders[orderID] = &models.Order{ID: orderID, TotalAmount: mustDecimal(t, "10.00")}
	repo.createLinkErr = fmt.Errorf("connection reset")

	svc := buildDiscountsService(t, repo, orderRepo, now)
	_, err := svc.Apply(context.Background(), orderID, "ONE")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestApplyUnknownOrder(t *testing.T) {
	now := time.Now()
	repo := newFakeDiscountsRepo()
	repo.discounts["ONE"] = &models.Discount{
		ID:           uuid.New(),
		Code:         "ONE",
		DiscountType: enums.DiscountTypeFixed,
		Amount:       mustDecimal(t, "1.00"),
		IsActive:     true,
	}

	svc := buildDiscountsService(t, repo, newFakeOrderRepo(), now)
	_, err := svc.Apply(context.Background(), uuid.New(), "ONE")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
