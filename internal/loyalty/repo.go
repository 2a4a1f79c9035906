package loyalty

import (
	"context"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a loyalty repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateLedgerEntry(ctx context.Context, entry *models.LoyaltyLedgerEntry) (*models.LoyaltyLedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ListEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyLedgerEntry, error) {
	var entries []models.LoyaltyLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) AddPoints(ctx context.Context, userID uuid.UUID, points int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points_balance", gorm.Expr("points_balance + ?", points))
	return result.RowsAffected, result.Error
}

// DeductPointsIfAvailable decrements the balance only when the user holds at
// least the requested points. Zero rows affected with an existing user means
// the balance was short; the guard runs inside the UPDATE so concurrent
// redeems cannot overdraw.
func (r *repository) DeductPointsIfAvailable(ctx context.Context, userID uuid.UUID, points int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND points_balance >= ?", userID, points).
		UpdateColumn("points_balance", gorm.Expr("points_balance - ?", points))
	return result.RowsAffected, result.Error
}
