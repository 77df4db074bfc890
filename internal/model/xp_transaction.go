package model

import (
	"time"

	"github.com/google/uuid"
)

type XPSource string

const (
	SourceLessonComplete    XPSource = "lesson-complete"
	SourceQuizComplete      XPSource = "quiz-complete"
	SourceChallengeComplete XPSource = "challenge-complete"
	SourceStreakBonus       XPSource = "streak-bonus"
	SourceAchievement       XPSource = "achievement"
	SourceDailyBonus        XPSource = "daily-bonus"
	SourceEvent             XPSource = "event"
	SourceAdjustment        XPSource = "adjustment"
)

// XPTransaction is an append-only ledger entry. Rows are immutable once
// written; the sum of Amount per user is the authoritative XP total.
//
// The partial unique index on (user_id, source_type, source_id) is the
// idempotency guarantee: a retried award for the same underlying event
// conflicts on insert and the original row is returned instead.
type XPTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_xp_user_date,priority:1;index:idx_xp_idem,unique,priority:1,where:source_id IS NOT NULL" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Amount      int       `gorm:"not null" json:"amount"`
	SourceType  XPSource  `gorm:"size:50;not null;index:idx_xp_idem,unique,priority:2,where:source_id IS NOT NULL" json:"source_type"`
	SourceID    *string   `gorm:"size:100;index:idx_xp_idem,unique,priority:3,where:source_id IS NOT NULL" json:"source_id,omitempty"`
	Multiplier  float64   `gorm:"not null;default:1" json:"multiplier"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index:idx_xp_user_date,priority:2" json:"created_at"`
}

func (XPTransaction) TableName() string {
	return "xp_transactions"
}
