package repository

import (
	"context"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	WithTx(tx *gorm.DB) AchievementRepository
	AllDefinitions(ctx context.Context) ([]model.Achievement, error)
	FindBySlug(ctx context.Context, slug string) (*model.Achievement, error)
	UnlockedByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	CreateUnlock(ctx context.Context, unlock *model.UserAchievement) (bool, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) WithTx(tx *gorm.DB) AchievementRepository {
	return &achievementRepository{db: tx}
}

func (r *achievementRepository) AllDefinitions(ctx context.Context) ([]model.Achievement, error) {
	var defs []model.Achievement
	err := r.db.WithContext(ctx).Order("id ASC").Find(&defs).Error
	return defs, err
}

func (r *achievementRepository) FindBySlug(ctx context.Context, slug string) (*model.Achievement, error) {
	var def model.Achievement
	err := r.db.WithContext(ctx).First(&def, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *achievementRepository) UnlockedByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	var unlocks []model.UserAchievement
	err := r.db.WithContext(ctx).Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocks).Error
	return unlocks, err
}

// CreateUnlock inserts the unlock row, ignoring the insert if the user has
// the achievement already. Returns true when this call performed the unlock.
func (r *achievementRepository) CreateUnlock(ctx context.Context, unlock *model.UserAchievement) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(unlock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
