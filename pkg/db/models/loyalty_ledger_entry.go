package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
)

// LoyaltyLedgerEntry records an immutable signed point change for a user.
// Entries are never updated or deleted; the user's points_balance is a
// projection of their sum.
type LoyaltyLedgerEntry struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID      uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	TxnType      enums.LoyaltyTxnType `gorm:"column:txn_type;type:loyalty_txn_type_enum;not null"`
	PointsChange int                  `gorm:"column:points_change;not null"`
	Reason       string               `gorm:"column:reason;type:text;not null"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}
