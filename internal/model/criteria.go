package model

// CriteriaKind is the closed set of things an unlock rule can measure.
// Evaluators switch over this type exhaustively; adding a kind means
// touching every switch, which is the point.
type CriteriaKind string

const (
	CriteriaLessonsCompleted    CriteriaKind = "lessons_completed"
	CriteriaQuizzesCompleted    CriteriaKind = "quizzes_completed"
	CriteriaChallengesCompleted CriteriaKind = "challenges_completed"
	CriteriaPerfectScores       CriteriaKind = "perfect_scores"
	CriteriaFastSolves          CriteriaKind = "fast_solves"
	CriteriaCoursesCompleted    CriteriaKind = "courses_completed"
	CriteriaStreakDays          CriteriaKind = "streak_days"
	CriteriaTotalXP             CriteriaKind = "total_xp"
	CriteriaLevelReached        CriteriaKind = "level_reached"
	CriteriaEventCount          CriteriaKind = "event"
)

// Criteria is the typed unlock rule shared by achievements and badges:
// kind + threshold, plus an event slug for the opaque "event" kind used by
// secret/easter-egg unlocks.
type Criteria struct {
	Kind   CriteriaKind `gorm:"column:criteria_kind;size:50;not null" json:"kind"`
	Target int          `gorm:"column:criteria_target;not null" json:"target"`
	Event  string       `gorm:"column:criteria_event;size:100" json:"event,omitempty"`
}
