package model

import (
	"time"

	"github.com/google/uuid"
)

// StreakHistory records one row per user per calendar day of activity.
// Date is stored truncated to midnight UTC; the unique index makes a second
// recordActivity call for the same day a no-op.
type StreakHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_streak_user_date,unique,priority:1" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
	Date          time.Time `gorm:"not null;index:idx_streak_user_date,unique,priority:2" json:"date"`
	ActivityCount int       `gorm:"not null;default:0" json:"activity_count"`
	XPEarned      int       `gorm:"not null;default:0" json:"xp_earned"`
	StreakDay     int       `gorm:"not null;default:0" json:"streak_day"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StreakHistory) TableName() string {
	return "streak_history"
}
