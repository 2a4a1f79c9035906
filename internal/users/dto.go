package users

import (
	"time"

	"github.com/bakehouse-hq/bakehouse-backend/pkg/db/models"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the public shape of a user returned by the API.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Role          enums.UserRole `json:"role"`
	PointsBalance int            `json:"points_balance"`
	CreatedAt     time.Time      `json:"created_at"`
}

// FromModel maps the persistence model onto the public DTO.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		Role:          user.Role,
		PointsBalance: user.PointsBalance,
		CreatedAt:     user.CreatedAt,
	}
}
