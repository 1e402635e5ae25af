package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ArchiveRepo interface {
  Create(ctx context.Context, tx *gorm.DB, archive *types.Archive) error
  GetByItemID(ctx context.Context, tx *gorm.DB, itemID int) (*types.Archive, error)
  MemberItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int) (map[int]bool, error)
  DeleteByItemID(ctx context.Context, tx *gorm.DB, itemID int) error
}

type archiveRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArchiveRepo(db *gorm.DB, baseLog *logger.Logger) ArchiveRepo {
  repoLog := baseLog.With("repo", "ArchiveRepo")
  return &archiveRepo{db: db, log: repoLog}
}

func (ar *archiveRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ar.db
}

func (ar *archiveRepo) Create(ctx context.Context, tx *gorm.DB, archive *types.Archive) error {
  return ar.handle(tx).WithContext(ctx).Create(archive).Error
}

func (ar *archiveRepo) GetByItemID(ctx context.Context, tx *gorm.DB, itemID int) (*types.Archive, error) {
  var result types.Archive
  err := ar.handle(tx).WithContext(ctx).
    Where("item_id = ?", itemID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

// MemberItemIDs is the batched archive membership check for a page of items.
func (ar *archiveRepo) MemberItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []int) (map[int]bool, error) {
  members := make(map[int]bool, len(itemIDs))
  if len(itemIDs) == 0 {
    return members, nil
  }
  var ids []int
  err := ar.handle(tx).WithContext(ctx).
    Model(&types.Archive{}).
    Where("item_id IN ?", itemIDs).
    Pluck("item_id", &ids).Error
  if err != nil {
    return nil, err
  }
  for _, id := range ids {
    members[id] = true
  }
  return members, nil
}

func (ar *archiveRepo) DeleteByItemID(ctx context.Context, tx *gorm.DB, itemID int) error {
  return ar.handle(tx).WithContext(ctx).
    Where("item_id = ?", itemID).
    Delete(&types.Archive{}).Error
}
