package repository

import (
	"context"
	"errors"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	WithTx(tx *gorm.DB) BadgeRepository
	AllDefinitions(ctx context.Context) ([]model.Badge, error)
	FindByID(ctx context.Context, id uint) (*model.Badge, error)
	EarnedByUser(ctx context.Context, userID uuid.UUID) ([]model.UserBadge, error)
	FindUserBadge(ctx context.Context, userID uuid.UUID, badgeID uint) (*model.UserBadge, error)
	CreateUnlock(ctx context.Context, unlock *model.UserBadge) (bool, error)
	CountDisplayed(ctx context.Context, userID uuid.UUID) (int64, error)
	MaxDisplayOrder(ctx context.Context, userID uuid.UUID) (int, error)
	SaveUserBadge(ctx context.Context, ub *model.UserBadge) error
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) WithTx(tx *gorm.DB) BadgeRepository {
	return &badgeRepository{db: tx}
}

func (r *badgeRepository) AllDefinitions(ctx context.Context) ([]model.Badge, error) {
	var defs []model.Badge
	err := r.db.WithContext(ctx).Order("id ASC").Find(&defs).Error
	return defs, err
}

func (r *badgeRepository) FindByID(ctx context.Context, id uint) (*model.Badge, error) {
	var def model.Badge
	err := r.db.WithContext(ctx).First(&def, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *badgeRepository) EarnedByUser(ctx context.Context, userID uuid.UUID) ([]model.UserBadge, error) {
	var earned []model.UserBadge
	err := r.db.WithContext(ctx).Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *badgeRepository) FindUserBadge(ctx context.Context, userID uuid.UUID, badgeID uint) (*model.UserBadge, error) {
	var ub model.UserBadge
	err := r.db.WithContext(ctx).Preload("Badge").
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		First(&ub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ub, nil
}

// CreateUnlock mirrors AchievementRepository.CreateUnlock: insert-or-ignore,
// true when the row was actually created by this call.
func (r *badgeRepository) CreateUnlock(ctx context.Context, unlock *model.UserBadge) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(unlock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *badgeRepository) CountDisplayed(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).
		Where("user_id = ? AND is_displayed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *badgeRepository) MaxDisplayOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).
		Select("COALESCE(MAX(display_order), 0)").
		Where("user_id = ? AND is_displayed = ?", userID, true).
		Scan(&max).Error
	return max, err
}

func (r *badgeRepository) SaveUserBadge(ctx context.Context, ub *model.UserBadge) error {
	return r.db.WithContext(ctx).Save(ub).Error
}
