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
  "github.com/pdmlab/catalog-backend/internal/types"
)

const (
  PermSeriesCreate = "series.create"
  PermSeriesRead   = "series.read"
  PermSeriesEdit   = "series.edit"
  PermSeriesDelete = "series.delete"
)

type FieldInput struct {
  Name         string `json:"name"`
  DataType     string `json:"dataType"`
  IsRequired   bool   `json:"isRequired"`
  IsFiltered   bool   `json:"isFiltered"`
  SearchErp    bool   `json:"searchErp"`
  IsErp        bool   `json:"isErp"`
  IsLimitField bool   `json:"isLimitField"`
  Sequence     int    `json:"sequence"`
}

type CreateSeriesInput struct {
  Name   string       `json:"name"`
  Fields []FieldInput `json:"fields"`
}

type SeriesOutput struct {
  ID        int           `json:"id"`
  Name      string        `json:"name"`
  CreatedBy int           `json:"createdBy"`
  Fields    []types.Field `json:"fields,omitempty"`
}

type SeriesService interface {
  Create(ctx context.Context, input CreateSeriesInput) (*SeriesOutput, error)
  Read(ctx context.Context, seriesID int) (*SeriesOutput, error)
  List(ctx context.Context, keyword string, page, limit int) ([]SeriesOutput, error)
  Update(ctx context.Context, seriesID int, name string) error
  Delete(ctx context.Context, seriesID int) error
}

type seriesService struct {
  db         *gorm.DB
  log        *logger.Logger
  seriesRepo repos.SeriesRepo
  fieldRepo  repos.FieldRepo
}

func NewSeriesService(db *gorm.DB, baseLog *logger.Logger, seriesRepo repos.SeriesRepo, fieldRepo repos.FieldRepo) SeriesService {
  serviceLog := baseLog.With("service", "SeriesService")
  return &seriesService{db: db, log: serviceLog, seriesRepo: seriesRepo, fieldRepo: fieldRepo}
}

// validateFields rejects unknown data types and more than one ERP key field
// before anything touches the database.
func validateFields(fields []FieldInput) error {
  erpKeys := 0
  for _, f := range fields {
    if strings.TrimSpace(f.Name) == "" {
      return apierr.Validation("Field name is required")
    }
    if _, err := fieldtype.ParseKind(f.DataType); err != nil {
      return apierr.Validation("%s", err.Error())
    }
    if f.SearchErp {
      erpKeys++
    }
  }
  if erpKeys > 1 {
    return apierr.Validation("Only one field per series may be the ERP search key")
  }
  return nil
}

func (ss *seriesService) Create(ctx context.Context, input CreateSeriesInput) (*SeriesOutput, error) {
  if err := requestdata.Require(ctx, PermSeriesCreate); err != nil {
    return nil, err
  }
  if strings.TrimSpace(input.Name) == "" {
    return nil, apierr.Validation("Series name is required")
  }
  if err := validateFields(input.Fields); err != nil {
    return nil, err
  }

  var out *SeriesOutput
  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    series, err := ss.seriesRepo.Create(ctx, tx, &types.Series{
      Name:      input.Name,
      CreatedBy: requestdata.UserID(ctx),
      Status:    types.SeriesStatusActive,
    })
    if err != nil {
      return apierr.Wrap(err)
    }

    rows := make([]*types.Field, 0, len(input.Fields))
    for i, f := range input.Fields {
      sequence := f.Sequence
      if sequence == 0 {
        sequence = i + 1
      }
      rows = append(rows, &types.Field{
        SeriesID:     series.ID,
        Name:         f.Name,
        DataType:     strings.ToLower(f.DataType),
        IsRequired:   f.IsRequired,
        IsFiltered:   f.IsFiltered,
        SearchErp:    f.SearchErp,
        IsErp:        f.IsErp,
        IsLimitField: f.IsLimitField,
        Sequence:     sequence,
      })
    }
    created, err := ss.fieldRepo.Create(ctx, tx, rows)
    if err != nil {
      return apierr.Wrap(err)
    }

    out = &SeriesOutput{ID: series.ID, Name: series.Name, CreatedBy: series.CreatedBy}
    for _, f := range created {
      out.Fields = append(out.Fields, *f)
    }
    return nil
  })
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  return out, nil
}

func (ss *seriesService) Read(ctx context.Context, seriesID int) (*SeriesOutput, error) {
  if err := requestdata.Require(ctx, PermSeriesRead); err != nil {
    return nil, err
  }
  series, err := ss.seriesRepo.GetActive(ctx, nil, seriesID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if series == nil {
    return nil, apierr.NotFound("Series not found")
  }
  fields, err := ss.fieldRepo.GetBySeries(ctx, nil, seriesID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  out := &SeriesOutput{ID: series.ID, Name: series.Name, CreatedBy: series.CreatedBy}
  for _, f := range fields {
    out.Fields = append(out.Fields, *f)
  }
  return out, nil
}

func (ss *seriesService) List(ctx context.Context, keyword string, page, limit int) ([]SeriesOutput, error) {
  if err := requestdata.Require(ctx, PermSeriesRead); err != nil {
    return nil, err
  }
  if page < 1 {
    page = 1
  }
  if limit <= 0 {
    limit = 10
  }
  rows, err := ss.seriesRepo.ListActive(ctx, nil, keyword, page, limit)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  out := make([]SeriesOutput, 0, len(rows))
  for _, s := range rows {
    out = append(out, SeriesOutput{ID: s.ID, Name: s.Name, CreatedBy: s.CreatedBy})
  }
  return out, nil
}

// Update renames a series. Renaming is refused once items exist so exported
// data keeps referring to the series it was created under.
func (ss *seriesService) Update(ctx context.Context, seriesID int, name string) error {
  if err := requestdata.Require(ctx, PermSeriesEdit); err != nil {
    return err
  }
  if strings.TrimSpace(name) == "" {
    return apierr.Validation("Series name is required")
  }
  series, err := ss.seriesRepo.GetActive(ctx, nil, seriesID)
  if err != nil {
    return apierr.Wrap(err)
  }
  if series == nil {
    return apierr.NotFound("Series not found")
  }
  hasItems, err := ss.seriesRepo.HasItems(ctx, nil, seriesID)
  if err != nil {
    return apierr.Wrap(err)
  }
  if hasItems {
    return apierr.Validation("Series with existing products cannot be renamed")
  }
  series.Name = name
  return apierr.Wrap(ss.seriesRepo.Update(ctx, nil, series))
}

// Delete soft-deletes the series; items and attributes stay in place but the
// series disappears from every listing and search.
func (ss *seriesService) Delete(ctx context.Context, seriesID int) error {
  if err := requestdata.Require(ctx, PermSeriesDelete); err != nil {
    return err
  }
  series, err := ss.seriesRepo.GetActive(ctx, nil, seriesID)
  if err != nil {
    return apierr.Wrap(err)
  }
  if series == nil {
    return apierr.NotFound("Series not found")
  }
  return apierr.Wrap(ss.seriesRepo.SetStatus(ctx, nil, seriesID, types.SeriesStatusDeleted))
}
