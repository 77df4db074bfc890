package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User owns identity plus the gamification aggregate. The gamification
// columns (xp_total, level, streak_*, freezes_available, last_activity_date)
// are mutated only inside the engine's per-user unit of work, never directly
// by other services.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`

	XPTotal          int        `gorm:"not null;default:0" json:"xp_total"`
	Level            int        `gorm:"not null;default:1" json:"level"`
	StreakCurrent    int        `gorm:"not null;default:0" json:"streak_current"`
	StreakLongest    int        `gorm:"not null;default:0" json:"streak_longest"`
	FreezesAvailable int        `gorm:"not null;default:0" json:"freezes_available"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Level == 0 {
		u.Level = 1
	}
	return nil
}
