package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error)
  GetByID(ctx context.Context, tx *gorm.DB, itemID int) (*types.Item, error)
  SetDeleted(ctx context.Context, tx *gorm.DB, itemIDs []int, deleted bool) error
  SearchRows(ctx context.Context, tx *gorm.DB, sql string, args []interface{}) ([]*types.Item, error)
  Count(ctx context.Context, tx *gorm.DB, sql string, args []interface{}) (int64, error)
}

type itemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
  repoLog := baseLog.With("repo", "ItemRepo")
  return &itemRepo{db: db, log: repoLog}
}

func (ir *itemRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ir.db
}

func (ir *itemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error) {
  if err := ir.handle(tx).WithContext(ctx).Create(item).Error; err != nil {
    return nil, err
  }
  return item, nil
}

func (ir *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, itemID int) (*types.Item, error) {
  var result types.Item
  err := ir.handle(tx).WithContext(ctx).
    Where("id = ?", itemID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (ir *itemRepo) SetDeleted(ctx context.Context, tx *gorm.DB, itemIDs []int, deleted bool) error {
  if len(itemIDs) == 0 {
    return nil
  }
  return ir.handle(tx).WithContext(ctx).
    Model(&types.Item{}).
    Where("id IN ?", itemIDs).
    Update("is_deleted", deleted).Error
}

// SearchRows executes a compiled search query. The SQL comes from the search
// builder, values arrive bound.
func (ir *itemRepo) SearchRows(ctx context.Context, tx *gorm.DB, sql string, args []interface{}) ([]*types.Item, error) {
  var results []*types.Item
  if err := ir.handle(tx).WithContext(ctx).Raw(sql, args...).Scan(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *itemRepo) Count(ctx context.Context, tx *gorm.DB, sql string, args []interface{}) (int64, error) {
  var count int64
  if err := ir.handle(tx).WithContext(ctx).Raw(sql, args...).Scan(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
