package repository

import (
	"context"
	"errors"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository interface {
	WithTx(tx *gorm.DB) CounterRepository
	Increment(ctx context.Context, userID uuid.UUID, kind string, delta int) error
	Get(ctx context.Context, userID uuid.UUID, kind string) (int, error)
	AllForUser(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) WithTx(tx *gorm.DB) CounterRepository {
	return &counterRepository{db: tx}
}

// Increment upserts the counter row, adding delta on conflict.
func (r *counterRepository) Increment(ctx context.Context, userID uuid.UUID, kind string, delta int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("user_counters.value + excluded.value"),
		}),
	}).Create(&model.UserCounter{
		UserID: userID,
		Kind:   kind,
		Value:  delta,
	}).Error
}

func (r *counterRepository) Get(ctx context.Context, userID uuid.UUID, kind string) (int, error) {
	var counter model.UserCounter
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Value, nil
}

func (r *counterRepository) AllForUser(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	var counters []model.UserCounter
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&counters).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int, len(counters))
	for _, c := range counters {
		out[c.Kind] = c.Value
	}
	return out, nil
}
