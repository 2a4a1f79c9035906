package loyalty

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

const (
	earnReason   = "Order completed"
	redeemReason = "Redeemed on order"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service maintains the loyalty ledger and the cached user balance.
type Service interface {
	Earn(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) (int, error)
	Redeem(ctx context.Context, userID, orderID uuid.UUID, points int) error
	History(ctx context.Context, userID uuid.UUID) (*HistoryResult, error)
}

type service struct {
	repo  Repository
	users userFinder
	tx    txRunner
}

// ServiceParams bundles the dependencies required to build a loyalty service.
type ServiceParams struct {
	Repo     Repository
	UserRepo userFinder
	Tx       txRunner
}

// NewService builds a loyalty service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:  params.Repo,
		users: params.UserRepo,
		tx:    params.Tx,
	}, nil
}

// Earn credits floor(amount) points for a completed order. The ledger entry
// and the balance increment commit together.
func (s *service) Earn(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if orderID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if amount.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	points := int(amount.Floor().IntPart())

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.AddPoints(ctx, userID, points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment balance")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}

		if _, err := repo.CreateLedgerEntry(ctx, &models.LoyaltyLedgerEntry{
			UserID:       userID,
			OrderID:      orderID,
			TxnType:      enums.LoyaltyTxnTypeEarn,
			PointsChange: points,
			Reason:       earnReason,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record earn entry")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}

// History returns the caller's balance and ledger lines, newest first.
func (s *service) History(ctx context.Context, userID uuid.UUID) (*HistoryResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	entries, err := s.repo.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ledger entries")
	}

	return &HistoryResult{
		PointsBalance: user.PointsBalance,
		Entries:       entriesFromModels(entries),
	}, nil
}

// Redeem deducts points against an order. The deduction is a conditional
// update, so two concurrent redeems can never spend the same points twice.
func (s *service) Redeem(ctx context.Context, userID, orderID uuid.UUID, points int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if points <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.DeductPointsIfAvailable(ctx, userID, points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deduct points")
		}
		if rows == 0 {
			if _, err := s.users.FindByID(ctx, userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
			}
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient points")
		}

		if _, err := repo.CreateLedgerEntry(ctx, &models.LoyaltyLedgerEntry{
			UserID:       userID,
			OrderID:      orderID,
			TxnType:      enums.LoyaltyTxnTypeRedeem,
			PointsChange: -points,
			Reason:       redeemReason,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record redeem entry")
		}
		return nil
	})
}
