package model

import (
	"time"

	"github.com/google/uuid"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// RarityOrder gives the display ordering common < rare < epic < legendary.
func RarityOrder(r BadgeRarity) int {
	switch r {
	case RarityCommon:
		return 0
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	default:
		return -1
	}
}

// Badge is a cosmetic unlock: no XP reward, rarity tier only.
type Badge struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Slug        string      `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name        string      `gorm:"size:100;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Icon        string      `gorm:"size:100" json:"icon"`
	Rarity      BadgeRarity `gorm:"size:20;not null;default:'common'" json:"rarity"`
	Criteria    Criteria    `gorm:"embedded" json:"criteria"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge rows are created once on unlock and never deleted. IsDisplayed
// and DisplayOrder are the only mutable fields, toggled by an explicit user
// action; at most MaxDisplayedBadges rows per user carry IsDisplayed=true.
type UserBadge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_user_badge,unique,priority:1" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	BadgeID      uint      `gorm:"not null;index:idx_user_badge,unique,priority:2" json:"badge_id"`
	Badge        Badge     `gorm:"foreignKey:BadgeID" json:"badge"`
	EarnedAt     time.Time `gorm:"autoCreateTime" json:"earned_at"`
	IsDisplayed  bool      `gorm:"not null;default:false" json:"is_displayed"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}
