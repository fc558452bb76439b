package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/types"
)

type DreamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.DreamRecord) error
	List(ctx context.Context, tx *gorm.DB, userID string, offset, limit int) ([]*types.DreamRecord, int64, error)
	All(ctx context.Context, tx *gorm.DB) ([]*types.DreamRecord, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	TrimOldest(ctx context.Context, tx *gorm.DB, keep int) error
}

type dreamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDreamRepo(db *gorm.DB, baseLog *logger.Logger) DreamRepo {
	return &dreamRepo{db: db, log: baseLog.With("repo", "DreamRepo")}
}

func (dr *dreamRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return dr.db
}

func (dr *dreamRepo) Create(ctx context.Context, tx *gorm.DB, record *types.DreamRecord) error {
	return dr.conn(tx).WithContext(ctx).Create(record).Error
}

// List returns a page of records, newest first, optionally filtered by user,
// plus the total count for the filter.
func (dr *dreamRepo) List(ctx context.Context, tx *gorm.DB, userID string, offset, limit int) ([]*types.DreamRecord, int64, error) {
	query := dr.conn(tx).WithContext(ctx).Model(&types.DreamRecord{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*types.DreamRecord
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (dr *dreamRepo) All(ctx context.Context, tx *gorm.DB) ([]*types.DreamRecord, error) {
	var records []*types.DreamRecord
	if err := dr.conn(tx).WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (dr *dreamRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	var count int64
	if err := dr.conn(tx).WithContext(ctx).
		Model(&types.DreamRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TrimOldest deletes all but the newest keep records, bounding table growth
// the way the original history file was capped.
func (dr *dreamRepo) TrimOldest(ctx context.Context, tx *gorm.DB, keep int) error {
	return dr.conn(tx).WithContext(ctx).
		Exec(`DELETE FROM dream_record WHERE id NOT IN (
			SELECT id FROM dream_record ORDER BY created_at DESC LIMIT ?
		)`, keep).Error
}
