package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/config"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/google/uuid"
)

// Domain event types reported by collaborators (lesson player, quiz grader,
// challenge runner, onboarding wizard).
const (
	EventLessonCompleted     = "lesson_completed"
	EventQuizCompleted       = "quiz_completed"
	EventChallengeCompleted  = "challenge_completed"
	EventCourseCompleted     = "course_completed"
	EventOnboardingCompleted = "onboarding_completed"
	EventDailyCheckIn        = "daily_check_in"
	EventCustom              = "custom"
)

// Base XP per event type, before the difficulty multiplier.
const (
	BaseXPLesson     = 50
	BaseXPQuiz       = 40
	BaseXPChallenge  = 80
	BaseXPCourse     = 200
	BaseXPOnboarding = 100
)

// DifficultyMultipliers is the tier catalog exposed to clients and applied
// to awards.
var DifficultyMultipliers = map[string]float64{
	"easy":   1.0,
	"medium": 1.25,
	"hard":   1.5,
	"expert": 2.0,
}

// DomainEvent is one "the user did X" report from a collaborator.
type DomainEvent struct {
	Type            string
	EntityID        string
	Difficulty      string
	Perfect         bool
	DurationSeconds int
	EventSlug       string
}

// EventResult combines the award and the streak effect of one event.
type EventResult struct {
	Award  *AwardResult  `json:"award,omitempty"`
	Streak *StreakResult `json:"streak,omitempty"`
}

// EventIntake translates collaborator domain events into engine operations:
// one idempotent award plus one activity record per qualifying event.
type EventIntake struct {
	xp      *XPService
	streaks *StreakTracker
	cfg     config.GamificationConfig
}

func NewEventIntake(xp *XPService, streaks *StreakTracker, cfg config.GamificationConfig) *EventIntake {
	return &EventIntake{xp: xp, streaks: streaks, cfg: cfg}
}

func (s *EventIntake) Handle(ctx context.Context, userID uuid.UUID, event DomainEvent) (*EventResult, error) {
	in, qualifying, err := s.toAward(userID, event)
	if err != nil {
		return nil, err
	}

	result := &EventResult{}

	if in != nil {
		award, err := s.xp.AwardXP(ctx, *in)
		if err != nil {
			return nil, err
		}
		result.Award = award
	}

	if qualifying {
		streak, err := s.streaks.RecordActivity(ctx, userID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		result.Streak = streak
	}

	return result, nil
}

// toAward maps an event to its award input. The second return reports
// whether the event counts as daily activity for the streak.
func (s *EventIntake) toAward(userID uuid.UUID, event DomainEvent) (*AwardInput, bool, error) {
	multiplier := 1.0
	if event.Difficulty != "" {
		m, ok := DifficultyMultipliers[event.Difficulty]
		if !ok {
			return nil, false, apperror.ErrInvalidInput
		}
		multiplier = m
	}

	switch event.Type {
	case EventLessonCompleted:
		if event.EntityID == "" {
			return nil, false, apperror.ErrInvalidInput
		}
		return &AwardInput{
			UserID:      userID,
			Amount:      BaseXPLesson,
			SourceType:  model.SourceLessonComplete,
			SourceID:    &event.EntityID,
			Multiplier:  multiplier,
			Description: fmt.Sprintf("Lesson %s completed", event.EntityID),
		}, true, nil

	case EventQuizCompleted:
		if event.EntityID == "" {
			return nil, false, apperror.ErrInvalidInput
		}
		in := &AwardInput{
			UserID:      userID,
			Amount:      BaseXPQuiz,
			SourceType:  model.SourceQuizComplete,
			SourceID:    &event.EntityID,
			Multiplier:  multiplier,
			Description: fmt.Sprintf("Quiz %s completed", event.EntityID),
		}
		if event.Perfect {
			in.ExtraCounters = append(in.ExtraCounters, string(model.CriteriaPerfectScores))
		}
		return in, true, nil

	case EventChallengeCompleted:
		if event.EntityID == "" {
			return nil, false, apperror.ErrInvalidInput
		}
		in := &AwardInput{
			UserID:      userID,
			Amount:      BaseXPChallenge,
			SourceType:  model.SourceChallengeComplete,
			SourceID:    &event.EntityID,
			Multiplier:  multiplier,
			Description: fmt.Sprintf("Challenge %s completed", event.EntityID),
		}
		if event.DurationSeconds > 0 && event.DurationSeconds <= s.cfg.FastSolveSeconds {
			in.ExtraCounters = append(in.ExtraCounters, string(model.CriteriaFastSolves))
		}
		return in, true, nil

	case EventCourseCompleted:
		if event.EntityID == "" {
			return nil, false, apperror.ErrInvalidInput
		}
		sourceID := "course_" + event.EntityID
		return &AwardInput{
			UserID:        userID,
			Amount:        BaseXPCourse,
			SourceType:    model.SourceEvent,
			SourceID:      &sourceID,
			Multiplier:    multiplier,
			Description:   fmt.Sprintf("Course %s completed", event.EntityID),
			ExtraCounters: []string{string(model.CriteriaCoursesCompleted)},
		}, true, nil

	case EventOnboardingCompleted:
		sourceID := "onboarding"
		return &AwardInput{
			UserID:      userID,
			Amount:      BaseXPOnboarding,
			SourceType:  model.SourceEvent,
			SourceID:    &sourceID,
			Multiplier:  1,
			Description: "Onboarding completed",
		}, false, nil

	case EventDailyCheckIn:
		// Pure activity, no XP of its own.
		return nil, true, nil

	case EventCustom:
		// Opaque counter bump for secret/easter-egg achievement criteria.
		if event.EventSlug == "" {
			return nil, false, apperror.ErrInvalidInput
		}
		sourceID := fmt.Sprintf("%s:%s", event.EventSlug, event.EntityID)
		return &AwardInput{
			UserID:        userID,
			Amount:        0,
			SourceType:    model.SourceEvent,
			SourceID:      &sourceID,
			Multiplier:    1,
			Description:   fmt.Sprintf("Event %s", event.EventSlug),
			ExtraCounters: []string{EventCounterKind(event.EventSlug)},
		}, false, nil

	default:
		return nil, false, apperror.ErrInvalidInput
	}
}

// ReferenceData is the aggregate level-system payload for client display.
type ReferenceData struct {
	LevelThresholds []int              `json:"level_thresholds"`
	MaxLevel        int                `json:"max_level"`
	RankTitles      []RankTitle        `json:"rank_titles"`
	XPSources       map[string]int     `json:"xp_sources"`
	Multipliers     map[string]float64 `json:"difficulty_multipliers"`
	Milestones      []int              `json:"streak_milestones"`
	DailyBonusXP    int                `json:"daily_bonus_xp"`
	MaxFreezes      int                `json:"max_freezes"`
}

func (s *EventIntake) ReferenceData(leveling *LevelingService) ReferenceData {
	return ReferenceData{
		LevelThresholds: LevelThresholds,
		MaxLevel:        leveling.MaxLevel(),
		RankTitles:      RankTitles,
		XPSources: map[string]int{
			string(model.SourceLessonComplete):    BaseXPLesson,
			string(model.SourceQuizComplete):      BaseXPQuiz,
			string(model.SourceChallengeComplete): BaseXPChallenge,
			string(model.SourceDailyBonus):        s.cfg.DailyBonusXP,
		},
		Multipliers:  DifficultyMultipliers,
		Milestones:   s.cfg.StreakMilestones,
		DailyBonusXP: s.cfg.DailyBonusXP,
		MaxFreezes:   s.cfg.MaxFreezes,
	}
}
