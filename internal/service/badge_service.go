package service

import (
	"context"
	"sort"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/config"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BadgeList is the read model for the badges endpoint: everything earned
// grouped by rarity, the displayed subset in order, and slot capacity.
type BadgeList struct {
	ByRarity     map[model.BadgeRarity][]model.UserBadge `json:"by_rarity"`
	Displayed    []model.UserBadge                       `json:"displayed"`
	EarnedCount  int                                     `json:"earned_count"`
	TotalBadges  int                                     `json:"total_badges"`
	MaxDisplayed int                                     `json:"max_displayed"`
}

// BadgeManager evaluates badge unlock criteria (no XP reward, rarity is
// cosmetic) and owns the bounded displayed-badges slot system.
type BadgeManager struct {
	db       *gorm.DB
	users    repository.UserRepository
	badges   repository.BadgeRepository
	counters repository.CounterRepository
	locks    *UserLocks
	cfg      config.GamificationConfig
}

func NewBadgeManager(
	db *gorm.DB,
	users repository.UserRepository,
	badges repository.BadgeRepository,
	counters repository.CounterRepository,
	locks *UserLocks,
	cfg config.GamificationConfig,
) *BadgeManager {
	return &BadgeManager{db: db, users: users, badges: badges, counters: counters, locks: locks, cfg: cfg}
}

// EvaluateUnlocks implements UnlockEvaluator. Badges grant no XP, so the
// returned rewards carry a zero amount and only surface the unlock slugs.
func (s *BadgeManager) EvaluateUnlocks(ctx context.Context, tx *gorm.DB, user *model.User) ([]UnlockReward, error) {
	badges := s.badges.WithTx(tx)
	counters := s.counters.WithTx(tx)

	defs, err := badges.AllDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	earned, err := badges.EarnedByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	have := make(map[uint]struct{}, len(earned))
	for _, e := range earned {
		have[e.BadgeID] = struct{}{}
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
		if progressValue(def.Criteria, user, counterValues) < def.Criteria.Target {
			continue
		}

		created, err := badges.CreateUnlock(ctx, &model.UserBadge{
			UserID:  user.ID,
			BadgeID: def.ID,
		})
		if err != nil {
			return nil, err
		}
		if created {
			rewards = append(rewards, UnlockReward{Slug: def.Slug})
		}
	}

	return rewards, nil
}

// SetDisplayed toggles a badge's display slot. Requires the badge to be
// unlocked and enforces the MaxDisplayedBadges cap; a failed toggle leaves
// the previous display state untouched.
func (s *BadgeManager) SetDisplayed(ctx context.Context, userID uuid.UUID, badgeID uint, displayed bool) (*model.UserBadge, error) {
	// The cap check and the toggle must not interleave across callers.
	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *model.UserBadge

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		badges := s.badges.WithTx(tx)

		ub, err := badges.FindUserBadge(ctx, userID, badgeID)
		if err != nil {
			return err
		}
		if ub == nil {
			def, err := badges.FindByID(ctx, badgeID)
			if err != nil {
				return err
			}
			if def == nil {
				return apperror.ErrNotFound
			}
			return apperror.ErrBadgeNotUnlocked
		}

		if displayed && !ub.IsDisplayed {
			count, err := badges.CountDisplayed(ctx, userID)
			if err != nil {
				return err
			}
			if count >= int64(s.cfg.MaxDisplayedBadges) {
				return apperror.ErrDisplaySlotExceeded
			}
			maxOrder, err := badges.MaxDisplayOrder(ctx, userID)
			if err != nil {
				return err
			}
			ub.IsDisplayed = true
			ub.DisplayOrder = maxOrder + 1
		} else if !displayed && ub.IsDisplayed {
			ub.IsDisplayed = false
			ub.DisplayOrder = 0
		}

		if err := badges.SaveUserBadge(ctx, ub); err != nil {
			return err
		}
		result = ub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListForUser builds the badge read model.
func (s *BadgeManager) ListForUser(ctx context.Context, userID uuid.UUID) (*BadgeList, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	defs, err := s.badges.AllDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	earned, err := s.badges.EarnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &BadgeList{
		ByRarity:     make(map[model.BadgeRarity][]model.UserBadge),
		EarnedCount:  len(earned),
		TotalBadges:  len(defs),
		MaxDisplayed: s.cfg.MaxDisplayedBadges,
	}

	for _, ub := range earned {
		list.ByRarity[ub.Badge.Rarity] = append(list.ByRarity[ub.Badge.Rarity], ub)
		if ub.IsDisplayed {
			list.Displayed = append(list.Displayed, ub)
		}
	}

	sort.Slice(list.Displayed, func(i, j int) bool {
		return list.Displayed[i].DisplayOrder < list.Displayed[j].DisplayOrder
	})

	return list, nil
}
