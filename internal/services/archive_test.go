package services

import (
  "testing"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/types"
)

func TestArchiveCreate_Idempotent(t *testing.T) {
  fx := newFixture(t)
  _, _, _, itemID := boltFixture(t, fx)

  if err := fx.archives.Create(allPermsCtx(), []int{itemID}); err != nil {
    t.Fatalf("archive: %v", err)
  }
  if err := fx.archives.Create(allPermsCtx(), []int{itemID}); err != nil {
    t.Fatalf("second archive must be a no-op, got %v", err)
  }
  var count int64
  if err := fx.db.Model(&types.Archive{}).Where("item_id = ?", itemID).Count(&count).Error; err != nil {
    t.Fatalf("count: %v", err)
  }
  if count != 1 {
    t.Fatalf("expected one archive row, got %d", count)
  }
}

func TestArchiveDelete(t *testing.T) {
  fx := newFixture(t)
  _, _, _, itemID := boltFixture(t, fx)

  if err := fx.archives.Create(allPermsCtx(), []int{itemID}); err != nil {
    t.Fatalf("archive: %v", err)
  }
  if err := fx.archives.Delete(allPermsCtx(), []int{itemID}); err != nil {
    t.Fatalf("unarchive: %v", err)
  }
  var count int64
  if err := fx.db.Model(&types.Archive{}).Where("item_id = ?", itemID).Count(&count).Error; err != nil {
    t.Fatalf("count: %v", err)
  }
  if count != 0 {
    t.Fatalf("archive row must be gone, got %d", count)
  }
}

func TestArchive_RequiresPermission(t *testing.T) {
  fx := newFixture(t)
  _, _, _, itemID := boltFixture(t, fx)

  if err := fx.archives.Create(authedCtx(PermProductRead), []int{itemID}); apierr.StatusOf(err) != 403 {
    t.Fatalf("expected 403, got %v", err)
  }
  if err := fx.archives.Create(allPermsCtx(), nil); apierr.StatusOf(err) != 400 {
    t.Fatalf("empty id list must 400, got %v", err)
  }
  if err := fx.archives.Create(allPermsCtx(), []int{9999}); apierr.StatusOf(err) != 404 {
    t.Fatalf("unknown item must 404, got %v", err)
  }
}
