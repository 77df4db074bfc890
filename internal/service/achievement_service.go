package service

import (
	"context"
	"fmt"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementStatus is one catalog entry with the user's progress against
// it. Secret achievements never appear here until unlocked.
type AchievementStatus struct {
	model.Achievement
	Unlocked   bool    `json:"unlocked"`
	UnlockedAt string  `json:"unlocked_at,omitempty"`
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
}

// AchievementList is the read model for the achievements endpoint.
type AchievementList struct {
	Achievements   []AchievementStatus `json:"achievements"`
	ByCategory     map[string]CategorySummary `json:"by_category"`
	NearCompletion []AchievementStatus `json:"near_completion"`
	UnlockedCount  int                 `json:"unlocked_count"`
	TotalVisible   int                 `json:"total_visible"`
}

type CategorySummary struct {
	Unlocked int `json:"unlocked"`
	Total    int `json:"total"`
}

// AchievementEvaluator unlocks achievements exactly once and hands their XP
// rewards back to the ledger. Unlocks are one-way: a later drop in the
// underlying counter never re-locks anything.
type AchievementEvaluator struct {
	users        repository.UserRepository
	achievements repository.AchievementRepository
	counters     repository.CounterRepository
}

func NewAchievementEvaluator(
	users repository.UserRepository,
	achievements repository.AchievementRepository,
	counters repository.CounterRepository,
) *AchievementEvaluator {
	return &AchievementEvaluator{users: users, achievements: achievements, counters: counters}
}

// EvaluateUnlocks implements UnlockEvaluator. Runs inside the unit of work's
// transaction; the insert-or-ignore on the unlock row keeps concurrent
// evaluations from double-granting.
func (s *AchievementEvaluator) EvaluateUnlocks(ctx context.Context, tx *gorm.DB, user *model.User) ([]UnlockReward, error) {
	achievements := s.achievements.WithTx(tx)
	counters := s.counters.WithTx(tx)

	defs, err := achievements.AllDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := achievements.UnlockedByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	have := make(map[uint]struct{}, len(unlocks))
	for _, u := range unlocks {
		have[u.AchievementID] = struct{}{}
	}

	counterValues, err := counters.AllForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var rewards []UnlockReward
	for _, def := range defs {
		if _, ok := have[def.ID]; ok {
			continue
		}
		current := progressValue(def.Criteria, user, counterValues)
		if current < def.Criteria.Target {
			continue
		}

		created, err := achievements.CreateUnlock(ctx, &model.UserAchievement{
			UserID:        user.ID,
			AchievementID: def.ID,
		})
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}

		rewards = append(rewards, UnlockReward{
			Slug:        def.Slug,
			Amount:      def.XPReward,
			Description: fmt.Sprintf("Achievement unlocked: %s", def.Name),
		})
	}

	return rewards, nil
}

// progressValue resolves a criteria kind to its current value. The switch is
// exhaustive over CriteriaKind; unknown kinds evaluate to zero and thus
// never unlock.
func progressValue(c model.Criteria, user *model.User, counters map[string]int) int {
	switch c.Kind {
	case model.CriteriaLessonsCompleted,
		model.CriteriaQuizzesCompleted,
		model.CriteriaChallengesCompleted,
		model.CriteriaPerfectScores,
		model.CriteriaFastSolves,
		model.CriteriaCoursesCompleted:
		return counters[string(c.Kind)]
	case model.CriteriaStreakDays:
		return user.StreakLongest
	case model.CriteriaTotalXP:
		return user.XPTotal
	case model.CriteriaLevelReached:
		return user.Level
	case model.CriteriaEventCount:
		return counters[EventCounterKind(c.Event)]
	default:
		return 0
	}
}

// List builds the achievements read model: unlocked plus visible
// in-progress, per-category tallies and a near-completion shortlist.
func (s *AchievementEvaluator) List(ctx context.Context, user *model.User) (*AchievementList, error) {
	defs, err := s.achievements.AllDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.achievements.UnlockedByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[uint]string, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.AchievementID] = u.UnlockedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	counterValues, err := s.counters.AllForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	list := &AchievementList{ByCategory: make(map[string]CategorySummary)}
	for _, def := range defs {
		_, unlocked := unlockedAt[def.ID]
		if def.IsSecret && !unlocked {
			continue
		}

		status := AchievementStatus{
			Achievement: def,
			Unlocked:    unlocked,
			Current:     progressValue(def.Criteria, user, counterValues),
			Target:      def.Criteria.Target,
		}
		if unlocked {
			status.UnlockedAt = unlockedAt[def.ID]
			status.Current = def.Criteria.Target
			status.Percentage = 100
			list.UnlockedCount++
		} else if def.Criteria.Target > 0 {
			if status.Current > def.Criteria.Target {
				status.Current = def.Criteria.Target
			}
			status.Percentage = float64(status.Current) / float64(def.Criteria.Target) * 100
		}

		list.Achievements = append(list.Achievements, status)
		list.TotalVisible++

		cs := list.ByCategory[def.Category]
		cs.Total++
		if unlocked {
			cs.Unlocked++
		}
		list.ByCategory[def.Category] = cs

		if !unlocked && status.Percentage >= 75 {
			list.NearCompletion = append(list.NearCompletion, status)
		}
	}

	return list, nil
}

// ListForUser is the handler-facing wrapper that resolves the user first.
func (s *AchievementEvaluator) ListForUser(ctx context.Context, userID uuid.UUID) (*AchievementList, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, user)
}
