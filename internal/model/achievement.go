package model

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is an immutable catalog entry seeded at startup.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:100" json:"icon"`
	Category    string    `gorm:"size:50;index" json:"category"`
	XPReward    int       `gorm:"not null;default:0" json:"xp_reward"`
	Criteria    Criteria  `gorm:"embedded" json:"criteria"`
	IsSecret    bool      `gorm:"not null;default:false" json:"is_secret"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement existing is the unlock; rows are never deleted and the
// unique index makes the unlock happen at most once per (user, achievement).
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index:idx_user_achievement,unique,priority:1" json:"user_id"`
	User          User        `gorm:"foreignKey:UserID" json:"-"`
	AchievementID uint        `gorm:"not null;index:idx_user_achievement,unique,priority:2" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	UnlockedAt    time.Time   `gorm:"autoCreateTime" json:"unlocked_at"`
}
