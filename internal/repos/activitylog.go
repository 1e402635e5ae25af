package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ActivityLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error
  List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.ActivityLog, error)
}

type activityLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
  repoLog := baseLog.With("repo", "ActivityLogRepo")
  return &activityLogRepo{db: db, log: repoLog}
}

func (lr *activityLogRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return lr.db
}

func (lr *activityLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error {
  return lr.handle(tx).WithContext(ctx).Create(entry).Error
}

func (lr *activityLogRepo) List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.ActivityLog, error) {
  if page < 1 {
    page = 1
  }
  if limit <= 0 {
    limit = 10
  }
  var results []*types.ActivityLog
  err := lr.handle(tx).WithContext(ctx).
    Order("id DESC").
    Offset((page - 1) * limit).
    Limit(limit).
    Find(&results).Error
  if err != nil {
    return nil, err
  }
  return results, nil
}
