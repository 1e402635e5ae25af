package services

import (
  "bytes"
  "context"
  "fmt"
  "os"
  "path/filepath"
  "strconv"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/imaging"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type ImageService interface {
  Save(ctx context.Context, tx *gorm.DB, data []byte) (*types.Image, error)
  Load(ctx context.Context, imageID int) ([]byte, string, error)
  ReleaseByStoredValue(ctx context.Context, tx *gorm.DB, stored string) (string, error)
  RemoveFile(path string)
}

type imageService struct {
  db        *gorm.DB
  log       *logger.Logger
  imageRepo repos.ImageRepo
  dir       string
}

func NewImageService(db *gorm.DB, baseLog *logger.Logger, imageRepo repos.ImageRepo, dir string) (ImageService, error) {
  serviceLog := baseLog.With("service", "ImageService")
  if err := os.MkdirAll(dir, 0o755); err != nil {
    return nil, fmt.Errorf("Failed to create image directory %s: %w", dir, err)
  }
  return &imageService{db: db, log: serviceLog, imageRepo: imageRepo, dir: dir}, nil
}

// Save sniffs, downscales and re-encodes the payload, writes the file under
// a fresh uuid name and records the Image row.
func (is *imageService) Save(ctx context.Context, tx *gorm.DB, data []byte) (*types.Image, error) {
  processed, err := imaging.Process(bytes.NewReader(data))
  if err != nil {
    return nil, apierr.Validation("%s", err.Error())
  }

  name := uuid.New().String()[:8]
  path := filepath.Join(is.dir, name+".jpg")
  if err := os.WriteFile(path, processed.Data, 0o644); err != nil {
    return nil, apierr.Storage(fmt.Errorf("Failed to write image file: %w", err))
  }

  image := &types.Image{Name: name, Path: path}
  if _, err := is.imageRepo.Create(ctx, tx, image); err != nil {
    // do not leave the file behind when the row insert fails
    _ = os.Remove(path)
    return nil, apierr.Wrap(err)
  }
  return image, nil
}

func (is *imageService) Load(ctx context.Context, imageID int) ([]byte, string, error) {
  image, err := is.imageRepo.GetByID(ctx, nil, imageID)
  if err != nil {
    return nil, "", apierr.Wrap(err)
  }
  if image == nil {
    return nil, "", apierr.NotFound("Image not found")
  }
  data, err := os.ReadFile(image.Path)
  if err != nil {
    if os.IsNotExist(err) {
      return nil, "", apierr.NotFound("Image not found")
    }
    return nil, "", apierr.Storage(err)
  }
  return data, "image/jpeg", nil
}

// ReleaseByStoredValue deletes the Image row a picture attribute points at
// and returns the file path for the caller to remove once its transaction
// commits. Deleting the file here would leave the rolled-back attribute
// pointing at nothing, so the row and the file part ways deliberately. A
// stored value that is not an image id is ignored.
func (is *imageService) ReleaseByStoredValue(ctx context.Context, tx *gorm.DB, stored string) (string, error) {
  id, err := strconv.Atoi(stored)
  if err != nil {
    return "", nil
  }
  image, err := is.imageRepo.GetByID(ctx, tx, id)
  if err != nil {
    return "", apierr.Wrap(err)
  }
  if image == nil {
    return "", nil
  }
  if err := is.imageRepo.Delete(ctx, tx, id); err != nil {
    return "", apierr.Wrap(err)
  }
  return image.Path, nil
}

// RemoveFile unlinks an image file. Failures are logged, never propagated:
// by the time this runs the database state is already settled.
func (is *imageService) RemoveFile(path string) {
  if path == "" {
    return
  }
  if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
    is.log.Warn("Failed to remove image file", "path", path, "error", err)
  }
}

// imageFiles tracks filesystem work done alongside a transaction. New files
// are removed when it rolls back; replaced files only once it commits, so a
// rollback never leaves an attribute pointing at a missing file and a commit
// never leaks the files it replaced.
type imageFiles struct {
  written  []string
  obsolete []string
}

func (f *imageFiles) commit(is ImageService) {
  for _, p := range f.obsolete {
    is.RemoveFile(p)
  }
}

func (f *imageFiles) rollback(is ImageService) {
  for _, p := range f.written {
    is.RemoveFile(p)
  }
}
