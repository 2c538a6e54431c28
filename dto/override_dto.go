package dto

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/zaxion/zaxion-backend/models"
)

type CreateOverrideBody struct {
	UserLogin string `json:"user_login" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Category  string `json:"category"`
	TtlHours  *int   `json:"ttl_hours"`
}

type APIOverride struct {
	Id        string                `json:"id"`
	UserLogin string                `json:"user_login"`
	Reason    string                `json:"reason"`
	Category  string                `json:"category"`
	ExpiresAt null.Value[time.Time] `json:"expires_at"`
	Expired   bool                  `json:"expired"`
	CreatedAt time.Time             `json:"created_at"`
}

func AdaptOverrideDto(override models.Override, now time.Time) APIOverride {
	return APIOverride{
		Id:        override.Id,
		UserLogin: override.UserLogin,
		Reason:    override.OverrideReason,
		Category:  override.Category,
		ExpiresAt: null.ValueFromPtr(override.ExpiresAt()),
		Expired:   override.IsExpired(now),
		CreatedAt: override.CreatedAt,
	}
}
