package dto

import "github.com/google/uuid"

// DomainEventRequest is the inbound event payload from collaborators.
type DomainEventRequest struct {
	Type            string `json:"type" binding:"required,oneof=lesson_completed quiz_completed challenge_completed course_completed onboarding_completed daily_check_in custom"`
	EntityID        string `json:"entity_id"`
	Difficulty      string `json:"difficulty" binding:"omitempty,oneof=easy medium hard expert"`
	Perfect         bool   `json:"perfect"`
	DurationSeconds int    `json:"duration_seconds" binding:"omitempty,min=0"`
	EventSlug       string `json:"event_slug"`
}

// AdjustXPRequest is the admin-only signed correction payload.
type AdjustXPRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Amount      int       `json:"amount" binding:"required"`
	Description string    `json:"description" binding:"required,max=255"`
}

// SetDisplayedRequest toggles a badge display slot.
type SetDisplayedRequest struct {
	Displayed bool `json:"displayed"`
}

// PaginationQuery is shared by history-style endpoints.
type PaginationQuery struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
