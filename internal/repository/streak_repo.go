package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakRepository interface {
	WithTx(tx *gorm.DB) StreakRepository
	CreateEntry(ctx context.Context, entry *model.StreakHistory) error
	FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.StreakHistory, error)
	AddActivity(ctx context.Context, userID uuid.UUID, date time.Time) error
	AddXP(ctx context.Context, userID uuid.UUID, date time.Time, xpEarned int) error
	Recent(ctx context.Context, userID uuid.UUID, days int) ([]model.StreakHistory, error)
}

type streakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) WithTx(tx *gorm.DB) StreakRepository {
	return &streakRepository{db: tx}
}

func (r *streakRepository) CreateEntry(ctx context.Context, entry *model.StreakHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *streakRepository) FindByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.StreakHistory, error) {
	var entry model.StreakHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// AddActivity bumps the activity counter on an existing day row.
func (r *streakRepository) AddActivity(ctx context.Context, userID uuid.UUID, date time.Time) error {
	return r.db.WithContext(ctx).Model(&model.StreakHistory{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("activity_count", gorm.Expr("activity_count + 1")).Error
}

// AddXP bumps the XP tally on an existing day row; matching no row is fine.
func (r *streakRepository) AddXP(ctx context.Context, userID uuid.UUID, date time.Time, xpEarned int) error {
	return r.db.WithContext(ctx).Model(&model.StreakHistory{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("xp_earned", gorm.Expr("xp_earned + ?", xpEarned)).Error
}

func (r *streakRepository) Recent(ctx context.Context, userID uuid.UUID, days int) ([]model.StreakHistory, error) {
	var entries []model.StreakHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(days).
		Find(&entries).Error
	return entries, err
}
