package loyalty

import (
	"context"
	"testing"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLoyaltyTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  is_active INTEGER NOT NULL DEFAULT 1,
  points_balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	ledger := `
CREATE TABLE IF NOT EXISTS loyalty_points_ledger (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  txn_type TEXT NOT NULL,
  points_change INTEGER NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	for _, stmt := range []string{users, ledger} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func insertLoyaltyUser(t *testing.T, db *gorm.DB, balance int) uuid.UUID {
	t.Helper()
	user := &models.User{
		ID:            uuid.New(),
		Email:         uuid.NewString() + "@example.com",
		PasswordHash:  "hash",
		Role:          enums.UserRoleCustomer,
		IsActive:      true,
		PointsBalance: balance,
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func userBalance(t *testing.T, db *gorm.DB, userID uuid.UUID) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	return user.PointsBalance
}

func TestRepoAddPoints(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := insertLoyaltyUser(t, db, 5)

	rows, err := repo.AddPoints(ctx, userID, 12)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	assert.Equal(t, 17, userBalance(t, db, userID))

	rows, err = repo.AddPoints(ctx, uuid.New(), 12)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestRepoDeductPointsConditional(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := insertLoyaltyUser(t, db, 30)

	rows, err := repo.DeductPointsIfAvailable(ctx, userID, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	assert.Equal(t, 10, userBalance(t, db, userID))

	rows, err = repo.DeductPointsIfAvailable(ctx, userID, 20)
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Equal(t, 10, userBalance(t, db, userID))
}

func TestRepoLedgerEntries(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := insertLoyaltyUser(t, db, 0)
	orderID := uuid.New()

	_, err := repo.CreateLedgerEntry(ctx, &models.LoyaltyLedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		OrderID:      orderID,
		TxnType:      enums.LoyaltyTxnTypeEarn,
		PointsChange: 8,
		Reason:       "Order completed",
	})
	require.NoError(t, err)

	entries, err := repo.ListEntriesByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, orderID, entries[0].OrderID)
	assert.Equal(t, 8, entries[0].PointsChange)

	entries, err = repo.ListEntriesByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
