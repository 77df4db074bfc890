package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// AwardInput describes one XP grant. Amount is the base amount before the
// multiplier; the applied amount is round(Amount * Multiplier) and is what
// lands in the ledger.
type AwardInput struct {
	UserID      uuid.UUID
	Amount      int
	SourceType  model.XPSource
	SourceID    *string
	Multiplier  float64
	Description string

	// ExtraCounters are progress counters bumped in the same unit of work
	// (perfect_scores, fast_solves, event:<slug>, ...).
	ExtraCounters []string
}

// AwardResult reports what one award actually did. AlreadyAwarded means the
// idempotency key matched a prior transaction and nothing changed.
type AwardResult struct {
	Transaction    *model.XPTransaction `json:"transaction"`
	AlreadyAwarded bool                 `json:"already_awarded"`
	XPTotal        int                  `json:"xp_total"`
	Level          int                  `json:"level"`
	RankTitle      string               `json:"rank_title"`
	LeveledUp      bool                 `json:"leveled_up"`
	Unlocked       []string             `json:"unlocked,omitempty"`
}

// UnlockReward is an XP grant produced by an achievement unlock during the
// evaluation pass of a unit of work.
type UnlockReward struct {
	Slug        string
	Amount      int
	Description string
}

// UnlockEvaluator re-checks unlock criteria for a user inside the current
// transaction and returns any rewards to append. Implementations create
// their own unlock rows; rewards never trigger a further evaluation pass,
// which keeps the cascade bounded.
type UnlockEvaluator interface {
	EvaluateUnlocks(ctx context.Context, tx *gorm.DB, user *model.User) ([]UnlockReward, error)
}

// XPService owns the append-only ledger and the user's derived level. Every
// write runs under the per-user lock plus one database transaction, so a
// failed award leaves no partial state.
type XPService struct {
	db         *gorm.DB
	users      repository.UserRepository
	ledger     repository.LedgerRepository
	counters   repository.CounterRepository
	streaks    repository.StreakRepository
	leveling   *LevelingService
	locks      *UserLocks
	sanitizer  *bluemonday.Policy
	evaluators []UnlockEvaluator
}

func NewXPService(
	db *gorm.DB,
	users repository.UserRepository,
	ledger repository.LedgerRepository,
	counters repository.CounterRepository,
	streaks repository.StreakRepository,
	leveling *LevelingService,
	locks *UserLocks,
	evaluators ...UnlockEvaluator,
) *XPService {
	return &XPService{
		db:         db,
		users:      users,
		ledger:     ledger,
		counters:   counters,
		streaks:    streaks,
		leveling:   leveling,
		locks:      locks,
		sanitizer:  bluemonday.StrictPolicy(),
		evaluators: evaluators,
	}
}

// AwardXP is the single entry point for granting XP. Idempotent per
// (userID, sourceType, sourceID): a retried call returns the original
// transaction without re-incrementing the total.
func (s *XPService) AwardXP(ctx context.Context, in AwardInput) (*AwardResult, error) {
	if err := validateAward(in); err != nil {
		return nil, err
	}

	// Descriptions can carry client-supplied text (adjustment notes, event
	// entity IDs) and are echoed back by the history endpoint.
	in.Description = s.sanitizer.Sanitize(in.Description)

	unlock := s.locks.Lock(in.UserID)
	defer unlock()

	var result *AwardResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.awardLocked(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Adjust is the signed correction path, exempt from the non-negative amount
// rule. The total may never go below zero; the stored level stays monotonic.
func (s *XPService) Adjust(ctx context.Context, userID uuid.UUID, amount int, description string) (*AwardResult, error) {
	if amount == 0 {
		return nil, apperror.ErrInvalidAmount
	}
	return s.AwardXP(ctx, AwardInput{
		UserID:      userID,
		Amount:      amount,
		SourceType:  model.SourceAdjustment,
		Multiplier:  1,
		Description: description,
	})
}

func validateAward(in AwardInput) error {
	if in.Multiplier <= 0 {
		return apperror.ErrInvalidAmount
	}
	if in.Amount < 0 && in.SourceType != model.SourceAdjustment {
		return apperror.ErrInvalidAmount
	}
	return nil
}

// awardLocked runs the award inside an already-held user lock and open
// transaction. StreakService composes milestone bonuses through this.
func (s *XPService) awardLocked(ctx context.Context, tx *gorm.DB, in AwardInput) (*AwardResult, error) {
	users := s.users.WithTx(tx)
	ledger := s.ledger.WithTx(tx)
	counters := s.counters.WithTx(tx)

	user, err := users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	applied := int(math.Round(float64(in.Amount) * in.Multiplier))
	if user.XPTotal+applied < 0 {
		return nil, apperror.ErrInvalidAmount
	}

	entry := &model.XPTransaction{
		UserID:      in.UserID,
		Amount:      applied,
		SourceType:  in.SourceType,
		SourceID:    in.SourceID,
		Multiplier:  in.Multiplier,
		Description: in.Description,
	}

	created, err := ledger.Append(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !created {
		existing, err := ledger.FindByIdempotencyKey(ctx, in.UserID, in.SourceType, *in.SourceID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperror.ErrConcurrencyConflict
		}
		return &AwardResult{
			Transaction:    existing,
			AlreadyAwarded: true,
			XPTotal:        user.XPTotal,
			Level:          user.Level,
			RankTitle:      s.leveling.RankForLevel(user.Level),
		}, nil
	}

	user.XPTotal += applied

	for _, kind := range sourceCounters(in) {
		if err := counters.Increment(ctx, in.UserID, kind, 1); err != nil {
			return nil, err
		}
	}

	// Keep the daily history's XP tally in step when the user already
	// checked in today. No row yet is fine, the update just matches nothing.
	if applied > 0 {
		today := DateOnly(time.Now().UTC())
		if err := s.streaks.WithTx(tx).AddXP(ctx, in.UserID, today, applied); err != nil {
			return nil, err
		}
	}

	prevLevel := user.Level
	unlocked, err := s.finishUnit(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	return &AwardResult{
		Transaction: entry,
		XPTotal:     user.XPTotal,
		Level:       user.Level,
		RankTitle:   s.leveling.RankForLevel(user.Level),
		LeveledUp:   user.Level > prevLevel,
		Unlocked:    unlocked,
	}, nil
}

// finishUnit closes a unit of work: one bounded evaluation pass over the
// unlock evaluators, reward transactions appended, level recomputed from the
// total (never downward), user row saved.
func (s *XPService) finishUnit(ctx context.Context, tx *gorm.DB, user *model.User) ([]string, error) {
	ledger := s.ledger.WithTx(tx)

	// Level first: evaluators must see the level this total implies, or a
	// level_reached unlock lands one unit of work late.
	if derived := s.leveling.LevelForXP(user.XPTotal); derived > user.Level {
		user.Level = derived
	}

	var unlocked []string
	for _, ev := range s.evaluators {
		rewards, err := ev.EvaluateUnlocks(ctx, tx, user)
		if err != nil {
			return nil, err
		}
		for _, reward := range rewards {
			unlocked = append(unlocked, reward.Slug)
			if reward.Amount <= 0 {
				continue
			}
			sourceID := reward.Slug
			created, err := ledger.Append(ctx, &model.XPTransaction{
				UserID:      user.ID,
				Amount:      reward.Amount,
				SourceType:  model.SourceAchievement,
				SourceID:    &sourceID,
				Multiplier:  1,
				Description: reward.Description,
			})
			if err != nil {
				return nil, err
			}
			if created {
				user.XPTotal += reward.Amount
			}
		}
	}

	// Rewards may have pushed the total past another boundary. The stored
	// level never decreases.
	if derived := s.leveling.LevelForXP(user.XPTotal); derived > user.Level {
		user.Level = derived
	}

	if err := s.users.WithTx(tx).Save(ctx, user); err != nil {
		return nil, err
	}
	return unlocked, nil
}

// XPInfo is the read model for the XP summary endpoint.
type XPInfo struct {
	UserID   uuid.UUID     `json:"user_id"`
	XPTotal  int           `json:"xp_total"`
	Progress LevelProgress `json:"progress"`
}

func (s *XPService) GetXPInfo(ctx context.Context, userID uuid.UUID) (*XPInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &XPInfo{
		UserID:   user.ID,
		XPTotal:  user.XPTotal,
		Progress: s.leveling.Progress(user.XPTotal),
	}, nil
}

// History returns the user's ledger, newest first.
func (s *XPService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.XPTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledger.History(ctx, userID, (page-1)*pageSize, pageSize)
}

func sourceCounters(in AwardInput) []string {
	var kinds []string
	switch in.SourceType {
	case model.SourceLessonComplete:
		kinds = append(kinds, string(model.CriteriaLessonsCompleted))
	case model.SourceQuizComplete:
		kinds = append(kinds, string(model.CriteriaQuizzesCompleted))
	case model.SourceChallengeComplete:
		kinds = append(kinds, string(model.CriteriaChallengesCompleted))
	}
	kinds = append(kinds, in.ExtraCounters...)
	return kinds
}

// DateOnly truncates a timestamp to midnight UTC; all streak and daily-bonus
// arithmetic runs on these values.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EventCounterKind names the opaque counter behind "event" criteria.
func EventCounterKind(slug string) string {
	return fmt.Sprintf("event:%s", slug)
}
