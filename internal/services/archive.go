package services

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/types"
)

const PermArchiveDelete = "archive.delete"

type ArchiveService interface {
  Create(ctx context.Context, itemIDs []int) error
  Delete(ctx context.Context, itemIDs []int) error
}

type archiveService struct {
  db          *gorm.DB
  log         *logger.Logger
  itemRepo    repos.ItemRepo
  archiveRepo repos.ArchiveRepo
}

func NewArchiveService(db *gorm.DB, baseLog *logger.Logger, itemRepo repos.ItemRepo, archiveRepo repos.ArchiveRepo) ArchiveService {
  serviceLog := baseLog.With("service", "ArchiveService")
  return &archiveService{db: db, log: serviceLog, itemRepo: itemRepo, archiveRepo: archiveRepo}
}

// Create archives items. Archiving an already-archived item is a no-op.
func (as *archiveService) Create(ctx context.Context, itemIDs []int) error {
  if err := requestdata.Require(ctx, PermArchiveCreate); err != nil {
    return err
  }
  if len(itemIDs) == 0 {
    return apierr.Validation("Incomplete data")
  }

  userID := requestdata.UserID(ctx)
  return apierr.Wrap(as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, id := range itemIDs {
      item, err := as.itemRepo.GetByID(ctx, tx, id)
      if err != nil {
        return apierr.Wrap(err)
      }
      if item == nil {
        return apierr.NotFound("Item not found")
      }
      existing, err := as.archiveRepo.GetByItemID(ctx, tx, id)
      if err != nil {
        return apierr.Wrap(err)
      }
      if existing != nil {
        continue
      }
      if err := as.archiveRepo.Create(ctx, tx, &types.Archive{ItemID: id, ArchivedBy: userID}); err != nil {
        return apierr.Wrap(err)
      }
    }
    return nil
  }))
}

func (as *archiveService) Delete(ctx context.Context, itemIDs []int) error {
  if err := requestdata.Require(ctx, PermArchiveDelete); err != nil {
    return err
  }
  if len(itemIDs) == 0 {
    return apierr.Validation("Incomplete data")
  }
  return apierr.Wrap(as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, id := range itemIDs {
      if err := as.archiveRepo.DeleteByItemID(ctx, tx, id); err != nil {
        return apierr.Wrap(err)
      }
    }
    return nil
  }))
}
