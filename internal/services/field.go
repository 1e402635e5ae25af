package services

import (
  "context"
  "strings"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/fieldtype"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
)

const (
  PermFieldEdit   = "field.edit"
  PermFieldDelete = "field.delete"
)

// PatchFieldInput carries only the properties the caller wants to change.
type PatchFieldInput struct {
  Name         *string `json:"name"`
  DataType     *string `json:"dataType"`
  IsRequired   *bool   `json:"isRequired"`
  IsFiltered   *bool   `json:"isFiltered"`
  SearchErp    *bool   `json:"searchErp"`
  IsErp        *bool   `json:"isErp"`
  IsLimitField *bool   `json:"isLimitField"`
  Sequence     *int    `json:"sequence"`
}

type FieldService interface {
  Patch(ctx context.Context, fieldID int, input PatchFieldInput) error
  Delete(ctx context.Context, fieldID int) error
}

type fieldService struct {
  db           *gorm.DB
  log          *logger.Logger
  fieldRepo    repos.FieldRepo
  attrRepo     repos.ItemAttributeRepo
  imageService ImageService
}

func NewFieldService(db *gorm.DB, baseLog *logger.Logger, fieldRepo repos.FieldRepo, attrRepo repos.ItemAttributeRepo, imageService ImageService) FieldService {
  serviceLog := baseLog.With("service", "FieldService")
  return &fieldService{db: db, log: serviceLog, fieldRepo: fieldRepo, attrRepo: attrRepo, imageService: imageService}
}

func (fs *fieldService) Patch(ctx context.Context, fieldID int, input PatchFieldInput) error {
  if err := requestdata.Require(ctx, PermFieldEdit); err != nil {
    return err
  }

  field, err := fs.fieldRepo.GetByID(ctx, nil, fieldID)
  if err != nil {
    return apierr.Wrap(err)
  }
  if field == nil {
    return apierr.NotFound("Field not found")
  }

  if input.DataType != nil {
    next := strings.ToLower(*input.DataType)
    if _, err := fieldtype.ParseKind(next); err != nil {
      return apierr.Validation("%s", err.Error())
    }
    if next != field.DataType {
      // a type change would reinterpret every stored value, so it is only
      // allowed while the field has no data
      hasData, err := fs.fieldRepo.HasAttributeData(ctx, nil, fieldID)
      if err != nil {
        return apierr.Wrap(err)
      }
      if hasData {
        return apierr.Validation("Cannot change data type of field %q while it has stored values", field.Name)
      }
      field.DataType = next
    }
  }

  if input.Name != nil {
    if strings.TrimSpace(*input.Name) == "" {
      return apierr.Validation("Field name is required")
    }
    field.Name = *input.Name
  }
  if input.IsRequired != nil {
    field.IsRequired = *input.IsRequired
  }
  if input.IsFiltered != nil {
    field.IsFiltered = *input.IsFiltered
  }
  if input.SearchErp != nil {
    field.SearchErp = *input.SearchErp
  }
  if input.IsErp != nil {
    field.IsErp = *input.IsErp
  }
  if input.IsLimitField != nil {
    field.IsLimitField = *input.IsLimitField
  }
  if input.Sequence != nil {
    field.Sequence = *input.Sequence
  }

  return apierr.Wrap(fs.fieldRepo.Update(ctx, nil, field))
}

// Delete removes a field and every attribute row under it. Picture fields
// also release the images their values point at.
func (fs *fieldService) Delete(ctx context.Context, fieldID int) error {
  if err := requestdata.Require(ctx, PermFieldDelete); err != nil {
    return err
  }

  field, err := fs.fieldRepo.GetByID(ctx, nil, fieldID)
  if err != nil {
    return apierr.Wrap(err)
  }
  if field == nil {
    return apierr.NotFound("Field not found")
  }

  var files imageFiles
  err = fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if kind, kerr := fieldtype.ParseKind(field.DataType); kerr == nil && kind == fieldtype.Picture {
      values, err := fs.attrRepo.ValuesByField(ctx, tx, fieldID)
      if err != nil {
        return apierr.Wrap(err)
      }
      for _, v := range values {
        path, derr := fs.imageService.ReleaseByStoredValue(ctx, tx, v)
        if derr != nil {
          return derr
        }
        if path != "" {
          files.obsolete = append(files.obsolete, path)
        }
      }
    }
    if err := fs.attrRepo.DeleteByField(ctx, tx, fieldID); err != nil {
      return apierr.Wrap(err)
    }
    return apierr.Wrap(fs.fieldRepo.Delete(ctx, tx, fieldID))
  })
  if err != nil {
    return apierr.Wrap(err)
  }
  files.commit(fs.imageService)
  return nil
}
