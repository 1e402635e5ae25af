package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type FieldRepo interface {
  Create(ctx context.Context, tx *gorm.DB, fields []*types.Field) ([]*types.Field, error)
  GetByID(ctx context.Context, tx *gorm.DB, fieldID int) (*types.Field, error)
  GetBySeries(ctx context.Context, tx *gorm.DB, seriesID int) ([]*types.Field, error)
  Update(ctx context.Context, tx *gorm.DB, field *types.Field) error
  Delete(ctx context.Context, tx *gorm.DB, fieldID int) error
  DeleteBySeries(ctx context.Context, tx *gorm.DB, seriesID int) error
  HasAttributeData(ctx context.Context, tx *gorm.DB, fieldID int) (bool, error)
}

type fieldRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFieldRepo(db *gorm.DB, baseLog *logger.Logger) FieldRepo {
  repoLog := baseLog.With("repo", "FieldRepo")
  return &fieldRepo{db: db, log: repoLog}
}

func (fr *fieldRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return fr.db
}

func (fr *fieldRepo) Create(ctx context.Context, tx *gorm.DB, fields []*types.Field) ([]*types.Field, error) {
  if len(fields) == 0 {
    return []*types.Field{}, nil
  }
  if err := fr.handle(tx).WithContext(ctx).Create(&fields).Error; err != nil {
    return nil, err
  }
  return fields, nil
}

func (fr *fieldRepo) GetByID(ctx context.Context, tx *gorm.DB, fieldID int) (*types.Field, error) {
  var result types.Field
  err := fr.handle(tx).WithContext(ctx).
    Where("id = ?", fieldID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (fr *fieldRepo) GetBySeries(ctx context.Context, tx *gorm.DB, seriesID int) ([]*types.Field, error) {
  var results []*types.Field
  err := fr.handle(tx).WithContext(ctx).
    Where("series_id = ?", seriesID).
    Order("sequence ASC, id ASC").
    Find(&results).Error
  if err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *fieldRepo) Update(ctx context.Context, tx *gorm.DB, field *types.Field) error {
  return fr.handle(tx).WithContext(ctx).Save(field).Error
}

func (fr *fieldRepo) Delete(ctx context.Context, tx *gorm.DB, fieldID int) error {
  return fr.handle(tx).WithContext(ctx).
    Delete(&types.Field{}, fieldID).Error
}

func (fr *fieldRepo) DeleteBySeries(ctx context.Context, tx *gorm.DB, seriesID int) error {
  return fr.handle(tx).WithContext(ctx).
    Where("series_id = ?", seriesID).
    Delete(&types.Field{}).Error
}

func (fr *fieldRepo) HasAttributeData(ctx context.Context, tx *gorm.DB, fieldID int) (bool, error) {
  var count int64
  err := fr.handle(tx).WithContext(ctx).
    Model(&types.ItemAttribute{}).
    Where("field_id = ? AND value IS NOT NULL", fieldID).
    Count(&count).Error
  if err != nil {
    return false, err
  }
  return count > 0, nil
}
