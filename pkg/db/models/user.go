package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
)

// User represents the canonical identity entity. PointsBalance is a cached
// projection of the loyalty ledger and is mutated only alongside a ledger
// entry that justifies the change.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	Role          enums.UserRole `gorm:"column:role;type:user_role_enum;not null;default:customer"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	PointsBalance int            `gorm:"column:points_balance;not null;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
