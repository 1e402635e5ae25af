package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ImageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, image *types.Image) (*types.Image, error)
  GetByID(ctx context.Context, tx *gorm.DB, imageID int) (*types.Image, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, imageIDs []int) ([]*types.Image, error)
  Delete(ctx context.Context, tx *gorm.DB, imageID int) error
}

type imageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
  repoLog := baseLog.With("repo", "ImageRepo")
  return &imageRepo{db: db, log: repoLog}
}

func (ir *imageRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ir.db
}

func (ir *imageRepo) Create(ctx context.Context, tx *gorm.DB, image *types.Image) (*types.Image, error) {
  if err := ir.handle(tx).WithContext(ctx).Create(image).Error; err != nil {
    return nil, err
  }
  return image, nil
}

func (ir *imageRepo) GetByID(ctx context.Context, tx *gorm.DB, imageID int) (*types.Image, error) {
  var result types.Image
  err := ir.handle(tx).WithContext(ctx).
    Where("id = ?", imageID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (ir *imageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, imageIDs []int) ([]*types.Image, error) {
  var results []*types.Image
  if len(imageIDs) == 0 {
    return results, nil
  }
  err := ir.handle(tx).WithContext(ctx).
    Where("id IN ?", imageIDs).
    Find(&results).Error
  if err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *imageRepo) Delete(ctx context.Context, tx *gorm.DB, imageID int) error {
  return ir.handle(tx).WithContext(ctx).
    Delete(&types.Image{}, imageID).Error
}
