package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type SeriesRepo interface {
  Create(ctx context.Context, tx *gorm.DB, series *types.Series) (*types.Series, error)
  GetActive(ctx context.Context, tx *gorm.DB, seriesID int) (*types.Series, error)
  ListActive(ctx context.Context, tx *gorm.DB, keyword string, page, limit int) ([]*types.Series, error)
  Update(ctx context.Context, tx *gorm.DB, series *types.Series) error
  SetStatus(ctx context.Context, tx *gorm.DB, seriesID, status int) error
  HasItems(ctx context.Context, tx *gorm.DB, seriesID int) (bool, error)
}

type seriesRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger) SeriesRepo {
  repoLog := baseLog.With("repo", "SeriesRepo")
  return &seriesRepo{db: db, log: repoLog}
}

func (sr *seriesRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return sr.db
}

func (sr *seriesRepo) Create(ctx context.Context, tx *gorm.DB, series *types.Series) (*types.Series, error) {
  if err := sr.handle(tx).WithContext(ctx).Create(series).Error; err != nil {
    return nil, err
  }
  return series, nil
}

func (sr *seriesRepo) GetActive(ctx context.Context, tx *gorm.DB, seriesID int) (*types.Series, error) {
  var result types.Series
  err := sr.handle(tx).WithContext(ctx).
    Where("id = ? AND status = ?", seriesID, types.SeriesStatusActive).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (sr *seriesRepo) ListActive(ctx context.Context, tx *gorm.DB, keyword string, page, limit int) ([]*types.Series, error) {
  var results []*types.Series
  query := sr.handle(tx).WithContext(ctx).
    Where("status = ?", types.SeriesStatusActive)
  if keyword != "" {
    query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+keyword+"%")
  }
  if page > 0 && limit > 0 {
    query = query.Offset((page - 1) * limit).Limit(limit)
  }
  if err := query.Order("id ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *seriesRepo) Update(ctx context.Context, tx *gorm.DB, series *types.Series) error {
  return sr.handle(tx).WithContext(ctx).Save(series).Error
}

func (sr *seriesRepo) SetStatus(ctx context.Context, tx *gorm.DB, seriesID, status int) error {
  return sr.handle(tx).WithContext(ctx).
    Model(&types.Series{}).
    Where("id = ?", seriesID).
    Update("status", status).Error
}

func (sr *seriesRepo) HasItems(ctx context.Context, tx *gorm.DB, seriesID int) (bool, error) {
  var count int64
  err := sr.handle(tx).WithContext(ctx).
    Model(&types.Item{}).
    Where("series_id = ?", seriesID).
    Count(&count).Error
  if err != nil {
    return false, err
  }
  return count > 0, nil
}
