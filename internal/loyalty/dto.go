package loyalty

import (
	"time"

	"github.com/google/uuid"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
)

// LedgerEntryDTO is the public shape of one ledger line.
type LedgerEntryDTO struct {
	ID           uuid.UUID            `json:"id"`
	OrderID      uuid.UUID            `json:"order_id"`
	TxnType      enums.LoyaltyTxnType `json:"txn_type"`
	PointsChange int                  `json:"points_change"`
	Reason       string               `json:"reason"`
	CreatedAt    time.Time            `json:"created_at"`
}

// HistoryResult pairs the current balance with the ledger lines that produced it.
type HistoryResult struct {
	PointsBalance int              `json:"points_balance"`
	Entries       []LedgerEntryDTO `json:"entries"`
}

func entriesFromModels(entries []models.LoyaltyLedgerEntry) []LedgerEntryDTO {
	out := make([]LedgerEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, LedgerEntryDTO{
			ID:           entry.ID,
			OrderID:      entry.OrderID,
			TxnType:      entry.TxnType,
			PointsChange: entry.PointsChange,
			Reason:       entry.Reason,
			CreatedAt:    entry.CreatedAt,
		})
	}
	return out
}
