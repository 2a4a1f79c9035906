package loyalty

import (
	"context"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the loyalty ledger and the
// cached balance on users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateLedgerEntry(ctx context.Context, entry *models.LoyaltyLedgerEntry) (*models.LoyaltyLedgerEntry, error)
	ListEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyLedgerEntry, error)
	AddPoints(ctx context.Context, userID uuid.UUID, points int) (int64, error)
	DeductPointsIfAvailable(ctx context.Context, userID uuid.UUID, points int) (int64, error)
}
