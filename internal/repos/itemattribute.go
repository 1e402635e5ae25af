package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ItemAttributeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, attributes []*types.ItemAttribute) error
  GetByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int) ([]*types.ItemAttribute, error)
  Get(ctx context.Context, tx *gorm.DB, itemID, fieldID int) (*types.ItemAttribute, error)
  SetValue(ctx context.Context, tx *gorm.DB, itemID, fieldID int, value *string) error
  DeleteByField(ctx context.Context, tx *gorm.DB, fieldID int) error
  ValuesByField(ctx context.Context, tx *gorm.DB, fieldID int) ([]string, error)
}

type itemAttributeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewItemAttributeRepo(db *gorm.DB, baseLog *logger.Logger) ItemAttributeRepo {
  repoLog := baseLog.With("repo", "ItemAttributeRepo")
  return &itemAttributeRepo{db: db, log: repoLog}
}

func (ar *itemAttributeRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ar.db
}

func (ar *itemAttributeRepo) Create(ctx context.Context, tx *gorm.DB, attributes []*types.ItemAttribute) error {
  if len(attributes) == 0 {
    return nil
  }
  return ar.handle(tx).WithContext(ctx).Create(&attributes).Error
}

// GetByItemIDs is the batched attribute fetch for a page of items: one round
// trip, never one query per item.
func (ar *itemAttributeRepo) GetByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int) ([]*types.ItemAttribute, error) {
  var results []*types.ItemAttribute
  if len(itemIDs) == 0 {
    return results, nil
  }
  err := ar.handle(tx).WithContext(ctx).
    Where("item_id IN ?", itemIDs).
    Find(&results).Error
  if err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *itemAttributeRepo) Get(ctx context.Context, tx *gorm.DB, itemID, fieldID int) (*types.ItemAttribute, error) {
  var result types.ItemAttribute
  err := ar.handle(tx).WithContext(ctx).
    Where("item_id = ? AND field_id = ?", itemID, fieldID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (ar *itemAttributeRepo) SetValue(ctx context.Context, tx *gorm.DB, itemID, fieldID int, value *string) error {
  return ar.handle(tx).WithContext(ctx).
    Model(&types.ItemAttribute{}).
    Where("item_id = ? AND field_id = ?", itemID, fieldID).
    Update("value", value).Error
}

func (ar *itemAttributeRepo) DeleteByField(ctx context.Context, tx *gorm.DB, fieldID int) error {
  return ar.handle(tx).WithContext(ctx).
    Where("field_id = ?", fieldID).
    Delete(&types.ItemAttribute{}).Error
}

// ValuesByField returns the non-null stored values for one field. Used when
// deleting a picture field to locate its image rows.
func (ar *itemAttributeRepo) ValuesByField(ctx context.Context, tx *gorm.DB, fieldID int) ([]string, error) {
  var values []string
  err := ar.handle(tx).WithContext(ctx).
    Model(&types.ItemAttribute{}).
    Where("field_id = ? AND value IS NOT NULL", fieldID).
    Pluck("value", &values).Error
  if err != nil {
    return nil, err
  }
  return values, nil
}
