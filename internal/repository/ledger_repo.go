package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository
	Append(ctx context.Context, entry *model.XPTransaction) (bool, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, sourceType model.XPSource, sourceID string) (*model.XPTransaction, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int, error)
	SumByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.XPTransaction, int64, error)
	CountBySource(ctx context.Context, userID uuid.UUID, sourceType model.XPSource) (int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: tx}
}

// Append writes one immutable ledger entry. Entries carrying a source ID are
// inserted with DO NOTHING against the idempotency index; Append reports
// false when the entry already existed and no row was written.
func (r *ledgerRepository) Append(ctx context.Context, entry *model.XPTransaction) (bool, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	q := r.db.WithContext(ctx)
	if entry.SourceID != nil {
		q = q.Clauses(clause.OnConflict{DoNothing: true})
	}

	res := q.Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ledgerRepository) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, sourceType model.XPSource, sourceID string) (*model.XPTransaction, error) {
	var entry model.XPTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND source_type = ? AND source_id = ?", userID, sourceType, sourceID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.XPTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepository) SumByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.XPTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepository) History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.XPTransaction, int64, error) {
	var entries []model.XPTransaction
	var count int64

	q := r.db.WithContext(ctx).Model(&model.XPTransaction{}).Where("user_id = ?", userID)
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, count, err
}

func (r *ledgerRepository) CountBySource(ctx context.Context, userID uuid.UUID, sourceType model.XPSource) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.XPTransaction{}).
		Where("user_id = ? AND source_type = ?", userID, sourceType).
		Count(&count).Error
	return count, err
}
