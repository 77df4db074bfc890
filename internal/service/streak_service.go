package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/config"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StreakResult reports the outcome of one recordActivity call.
type StreakResult struct {
	StreakCurrent    int  `json:"streak_current"`
	StreakLongest    int  `json:"streak_longest"`
	FreezesAvailable int  `json:"freezes_available"`
	FreezeUsed       bool `json:"freeze_used"`
	StreakReset      bool `json:"streak_reset"`
	AlreadyRecorded  bool `json:"already_recorded"`
	MilestoneReached int  `json:"milestone_reached,omitempty"`
	MilestoneXP      int  `json:"milestone_xp,omitempty"`
}

// DailyBonusResult is deliberately not an error on repeat claims; the first
// call grants, later same-day calls report AlreadyClaimed=true.
type DailyBonusResult struct {
	AlreadyClaimed bool                 `json:"already_claimed"`
	Transaction    *model.XPTransaction `json:"transaction,omitempty"`
	XPTotal        int                  `json:"xp_total"`
}

// StreakSummary is the read model for the streak endpoint.
type StreakSummary struct {
	StreakCurrent       int                   `json:"streak_current"`
	StreakLongest       int                   `json:"streak_longest"`
	FreezesAvailable    int                   `json:"freezes_available"`
	AtRisk              bool                  `json:"at_risk"`
	NextMilestone       int                   `json:"next_milestone,omitempty"`
	DailyBonusClaimable bool                  `json:"daily_bonus_claimable"`
	RecentHistory       []model.StreakHistory `json:"recent_history"`
}

// StreakTracker maintains the per-user consecutive-day streak, the freeze
// inventory, and the daily-bonus claim. All writes share the engine's
// per-user lock so a check-in and an award for the same user never race.
type StreakTracker struct {
	db      *gorm.DB
	users   repository.UserRepository
	streaks repository.StreakRepository
	xp      *XPService
	locks   *UserLocks
	rdb     *redis.Client
	cfg     config.GamificationConfig
}

func NewStreakTracker(
	db *gorm.DB,
	users repository.UserRepository,
	streaks repository.StreakRepository,
	xp *XPService,
	locks *UserLocks,
	rdb *redis.Client,
	cfg config.GamificationConfig,
) *StreakTracker {
	return &StreakTracker{
		db:      db,
		users:   users,
		streaks: streaks,
		xp:      xp,
		locks:   locks,
		rdb:     rdb,
		cfg:     cfg,
	}
}

// RecordActivity advances the streak state machine for one qualifying day.
// State is derived from lastActivityDate vs activityDate:
//
//	same day            -> no-op (activity counter bumped)
//	+1 day              -> streak continues
//	+2 days, freeze > 0 -> freeze consumed, gap day backfilled, streak kept
//	anything else       -> streak resets to 1
//
// A freeze never covers more than one missed day.
func (s *StreakTracker) RecordActivity(ctx context.Context, userID uuid.UUID, activityDate time.Time) (*StreakResult, error) {
	date := DateOnly(activityDate)

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *StreakResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.recordLocked(ctx, tx, userID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *StreakTracker) recordLocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*StreakResult, error) {
	users := s.users.WithTx(tx)
	streaks := s.streaks.WithTx(tx)

	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := streaks.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := streaks.AddActivity(ctx, userID, date); err != nil {
			return nil, err
		}
		return &StreakResult{
			StreakCurrent:    user.StreakCurrent,
			StreakLongest:    user.StreakLongest,
			FreezesAvailable: user.FreezesAvailable,
			AlreadyRecorded:  true,
		}, nil
	}

	result := &StreakResult{}

	switch gap := daysBetween(user.LastActivityDate, date); {
	case user.LastActivityDate == nil:
		user.StreakCurrent = 1
	case gap <= 0:
		// Out-of-order or replayed date; the aggregate has already moved
		// past it, so nothing to do beyond reporting current state.
		result.AlreadyRecorded = true
		result.StreakCurrent = user.StreakCurrent
		result.StreakLongest = user.StreakLongest
		result.FreezesAvailable = user.FreezesAvailable
		return result, nil
	case gap == 1:
		user.StreakCurrent++
	case gap == 2 && user.FreezesAvailable > 0:
		user.FreezesAvailable--
		result.FreezeUsed = true
		if err := streaks.CreateEntry(ctx, &model.StreakHistory{
			UserID:        userID,
			Date:          date.AddDate(0, 0, -1),
			ActivityCount: 0,
			StreakDay:     user.StreakCurrent,
		}); err != nil {
			return nil, err
		}
		user.StreakCurrent++
	default:
		user.StreakCurrent = 1
		result.StreakReset = true
	}

	if user.StreakCurrent > user.StreakLongest {
		user.StreakLongest = user.StreakCurrent
	}
	user.LastActivityDate = &date

	if err := streaks.CreateEntry(ctx, &model.StreakHistory{
		UserID:        userID,
		Date:          date,
		ActivityCount: 1,
		StreakDay:     user.StreakCurrent,
	}); err != nil {
		return nil, err
	}

	if milestone, idx := s.milestoneFor(user.StreakCurrent); milestone > 0 {
		bonus := s.cfg.MilestoneBaseXP * (idx + 1)
		sourceID := strconv.Itoa(milestone)
		award, err := s.xp.awardLocked(ctx, tx, AwardInput{
			UserID:      userID,
			Amount:      bonus,
			SourceType:  model.SourceStreakBonus,
			SourceID:    &sourceID,
			Multiplier:  1,
			Description: fmt.Sprintf("%d-day streak milestone", milestone),
		})
		if err != nil {
			return nil, err
		}
		if !award.AlreadyAwarded {
			result.MilestoneReached = milestone
			result.MilestoneXP = award.Transaction.Amount

			// Milestones also replenish one freeze, capped.
			if user.FreezesAvailable < s.cfg.MaxFreezes {
				user.FreezesAvailable++
			}
		}

		// awardLocked worked on its own copy of the row; carry its XP and
		// level forward so the save below doesn't lose the bonus.
		user.XPTotal = award.XPTotal
		if award.Level > user.Level {
			user.Level = award.Level
		}
	}

	if _, err := s.xp.finishUnit(ctx, tx, user); err != nil {
		return nil, err
	}

	result.StreakCurrent = user.StreakCurrent
	result.StreakLongest = user.StreakLongest
	result.FreezesAvailable = user.FreezesAvailable
	return result, nil
}

// ClaimDailyBonus grants the fixed daily XP at most once per calendar day.
// The ledger idempotency key (today's date) is the authority; redis only
// caches claimability for the summary read model.
func (s *StreakTracker) ClaimDailyBonus(ctx context.Context, userID uuid.UUID) (*DailyBonusResult, error) {
	today := DateOnly(time.Now().UTC())
	dateStr := today.Format("2006-01-02")

	award, err := s.xp.AwardXP(ctx, AwardInput{
		UserID:      userID,
		Amount:      s.cfg.DailyBonusXP,
		SourceType:  model.SourceDailyBonus,
		SourceID:    &dateStr,
		Multiplier:  1,
		Description: "Daily bonus",
	})
	if err != nil {
		return nil, err
	}

	if !award.AlreadyAwarded {
		s.cacheClaim(ctx, userID, dateStr, today)
	}

	return &DailyBonusResult{
		AlreadyClaimed: award.AlreadyAwarded,
		Transaction:    award.Transaction,
		XPTotal:        award.XPTotal,
	}, nil
}

func (s *StreakTracker) cacheClaim(ctx context.Context, userID uuid.UUID, dateStr string, today time.Time) {
	if s.rdb == nil {
		return
	}
	key := fmt.Sprintf("daily_bonus:user:%s:%s", userID, dateStr)
	ttl := time.Until(today.AddDate(0, 0, 1))
	if err := s.rdb.Set(ctx, key, "claimed", ttl).Err(); err != nil {
		log.Printf("failed to cache daily bonus claim for user %s: %v", userID, err)
	}
}

func (s *StreakTracker) dailyBonusClaimed(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
	dateStr := today.Format("2006-01-02")

	if s.rdb != nil {
		key := fmt.Sprintf("daily_bonus:user:%s:%s", userID, dateStr)
		n, err := s.rdb.Exists(ctx, key).Result()
		if err == nil && n > 0 {
			return true, nil
		}
	}

	entry, err := s.xp.ledger.FindByIdempotencyKey(ctx, userID, model.SourceDailyBonus, dateStr)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// Summary builds the streak read model. AtRisk means the user was active
// yesterday but has no freeze left, so missing today loses the streak.
func (s *StreakTracker) Summary(ctx context.Context, userID uuid.UUID) (*StreakSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := DateOnly(time.Now().UTC())

	claimed, err := s.dailyBonusClaimed(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	recent, err := s.streaks.Recent(ctx, userID, 14)
	if err != nil {
		return nil, err
	}

	summary := &StreakSummary{
		StreakCurrent:       user.StreakCurrent,
		StreakLongest:       user.StreakLongest,
		FreezesAvailable:    user.FreezesAvailable,
		DailyBonusClaimable: !claimed,
		RecentHistory:       recent,
	}

	if user.LastActivityDate != nil {
		gap := daysBetween(user.LastActivityDate, today)
		summary.AtRisk = gap == 1 && user.FreezesAvailable == 0
	}

	for _, m := range s.cfg.StreakMilestones {
		if m > user.StreakCurrent {
			summary.NextMilestone = m
			break
		}
	}

	return summary, nil
}

func (s *StreakTracker) milestoneFor(streak int) (int, int) {
	for i, m := range s.cfg.StreakMilestones {
		if m == streak {
			return m, i
		}
	}
	return 0, -1
}

// daysBetween counts whole calendar days from last to date; both sides are
// already truncated to midnight UTC.
func daysBetween(last *time.Time, date time.Time) int {
	if last == nil {
		return 0
	}
	return int(date.Sub(DateOnly(*last)).Hours() / 24)
}
