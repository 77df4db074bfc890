package model

import (
	"time"

	"github.com/google/uuid"
)

// UserCounter is a per-user progress counter consumed by the achievement and
// badge evaluators. Counters only ever increment; unlocks stay unlocked even
// if a counter definition changes later.
type UserCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_counter,unique,priority:1" json:"user_id"`
	Kind      string    `gorm:"size:100;not null;index:idx_user_counter,unique,priority:2" json:"kind"`
	Value     int       `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
