package services

import (
  "context"
  "fmt"
  "strconv"
  "strings"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/erp"
  "github.com/pdmlab/catalog-backend/internal/fieldtype"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/search"
  "github.com/pdmlab/catalog-backend/internal/types"
)

const (
  PermProductCreate  = "product.create"
  PermProductRead    = "product.read"
  PermProductEdit    = "product.edit"
  PermProductDelete  = "product.delete"
  PermLimitFieldRead = "limit-field.read"
  PermArchiveCreate  = "archive.create"
)

type FilterInput struct {
  FieldID   int         `json:"fieldId"`
  Value     interface{} `json:"value"`
  Operation string      `json:"operation"`
}

type SortInput struct {
  FieldID int
  Desc    bool
}

type SearchInput struct {
  SeriesID   int           `json:"seriesId"`
  Filters    []FilterInput `json:"filters"`
  IsDeleted  bool          `json:"isDeleted"`
  IsArchived *bool         `json:"isArchived"`
  Sort       *SortInput    `json:"-"`
  Page       int           `json:"-"`
  Limit      int           `json:"-"`
}

type AttributeOutput struct {
  FieldID   int         `json:"fieldId"`
  FieldName string      `json:"fieldName"`
  DataType  string      `json:"dataType"`
  Value     interface{} `json:"value"`
}

type ProductRecord struct {
  ItemID     int               `json:"itemId"`
  SeriesID   int               `json:"seriesId"`
  SeriesName string            `json:"seriesName,omitempty"`
  Attributes []AttributeOutput `json:"attributes"`
  Erp        []erp.Pair        `json:"erp"`
  HasArchive bool              `json:"hasArchive"`
  IsDeleted  bool              `json:"isDeleted"`
}

type SearchResult struct {
  Data       []ProductRecord
  TotalCount int64
}

type AttributeInput struct {
  FieldID int         `json:"fieldId"`
  Value   interface{} `json:"value"`
}

type CreateItemInput struct {
  SeriesID   int              `json:"seriesId"`
  Attributes []AttributeInput `json:"attributes"`
}

type CreatedItem struct {
  ID       int `json:"id"`
  SeriesID int `json:"seriesId"`
}

type EditItemInput struct {
  ItemID     int              `json:"itemId"`
  IsDeleted  *bool            `json:"isDeleted"`
  Attributes []AttributeInput `json:"attributes"`
}

type ExportResult struct {
  Filename string
  Content  []byte
}

type ProductService interface {
  Search(ctx context.Context, input SearchInput) (*SearchResult, error)
  Read(ctx context.Context, itemID int) (*ProductRecord, error)
  Create(ctx context.Context, inputs []CreateItemInput) ([]CreatedItem, error)
  Copy(ctx context.Context, itemIDs []int) ([]CreatedItem, error)
  UpdateMulti(ctx context.Context, inputs []EditItemInput) error
  Delete(ctx context.Context, itemIDs []int) error
  Export(ctx context.Context, input SearchInput) (*ExportResult, error)
}

type productService struct {
  db           *gorm.DB
  log          *logger.Logger
  seriesRepo   repos.SeriesRepo
  fieldRepo    repos.FieldRepo
  itemRepo     repos.ItemRepo
  attrRepo     repos.ItemAttributeRepo
  archiveRepo  repos.ArchiveRepo
  imageService ImageService
  erpClient    erp.Client
}

func NewProductService(
  db *gorm.DB,
  baseLog *logger.Logger,
  seriesRepo repos.SeriesRepo,
  fieldRepo repos.FieldRepo,
  itemRepo repos.ItemRepo,
  attrRepo repos.ItemAttributeRepo,
  archiveRepo repos.ArchiveRepo,
  imageService ImageService,
  erpClient erp.Client,
) ProductService {
  serviceLog := baseLog.With("service", "ProductService")
  return &productService{
    db:           db,
    log:          serviceLog,
    seriesRepo:   seriesRepo,
    fieldRepo:    fieldRepo,
    itemRepo:     itemRepo,
    attrRepo:     attrRepo,
    archiveRepo:  archiveRepo,
    imageService: imageService,
    erpClient:    erpClient,
  }
}

func (ps *productService) dialect() string {
  return ps.db.Name()
}

// fieldSet loads a series' schema once per request: fields in display order
// plus an id lookup.
func (ps *productService) fieldSet(ctx context.Context, tx *gorm.DB, seriesID int) ([]*types.Field, map[int]*types.Field, error) {
  fields, err := ps.fieldRepo.GetBySeries(ctx, tx, seriesID)
  if err != nil {
    return nil, nil, apierr.Wrap(err)
  }
  byID := make(map[int]*types.Field, len(fields))
  for _, f := range fields {
    byID[f.ID] = f
  }
  return fields, byID, nil
}

// missingRequired lists the names of fields passing the flag check that no
// supplied fieldId refers to.
func missingRequired(fields []*types.Field, supplied map[int]bool, flagged func(*types.Field) bool) []string {
  var missing []string
  for _, f := range fields {
    if flagged(f) && !supplied[f.ID] {
      missing = append(missing, f.Name)
    }
  }
  return missing
}

func suppliedFieldIDs(filters []FilterInput) map[int]bool {
  supplied := make(map[int]bool, len(filters))
  for _, f := range filters {
    supplied[f.FieldID] = true
  }
  return supplied
}

// compileFilters validates and coerces every filter before compiling it.
// Coercion failures are collected so the caller sees all invalid fields in
// one response.
func (ps *productService) compileFilters(filters []FilterInput, byID map[int]*types.Field) ([]search.Condition, error) {
  var conditions []search.Condition
  var problems []string

  for _, filter := range filters {
    field, ok := byID[filter.FieldID]
    if !ok {
      return nil, apierr.Validation("Invalid fieldId: %d", filter.FieldID)
    }
    kind, err := fieldtype.ParseKind(field.DataType)
    if err != nil {
      problems = append(problems, err.Error())
      continue
    }
    value, err := fieldtype.Normalize(field.Name, kind, filter.Value)
    if err != nil {
      problems = append(problems, err.Error())
      continue
    }

    op := fieldtype.Operator(filter.Operation)
    if op == "" {
      op = fieldtype.OpEquals
    }
    if kind == fieldtype.String {
      // free-text semantics: operator ignored, substring match
      value = "%" + value + "%"
      op = fieldtype.OpEquals
    } else if !fieldtype.Supports(kind, op) {
      // unsupported combinations fall through to equality on the raw string
      op = fieldtype.OpEquals
    }

    conditions = append(conditions, search.Compile(ps.dialect(), field.ID, kind, op, value))
  }

  if len(problems) > 0 {
    return nil, apierr.Validation("%s", strings.Join(problems, " "))
  }
  return conditions, nil
}

func (ps *productService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
  if err := requestdata.Require(ctx, PermProductRead); err != nil {
    return nil, err
  }

  series, err := ps.seriesRepo.GetActive(ctx, nil, input.SeriesID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if series == nil {
    return nil, apierr.NotFound("Series not found")
  }

  fields, byID, err := ps.fieldSet(ctx, nil, input.SeriesID)
  if err != nil {
    return nil, err
  }

  missing := missingRequired(fields, suppliedFieldIDs(input.Filters), func(f *types.Field) bool { return f.IsFiltered })
  if len(missing) > 0 {
    return nil, apierr.Validation("Missing required field: [%s]", strings.Join(missing, ", "))
  }

  conditions, err := ps.compileFilters(input.Filters, byID)
  if err != nil {
    return nil, err
  }

  builder := search.NewBuilder(ps.dialect(), input.SeriesID).IsDeleted(input.IsDeleted)
  if input.IsArchived != nil {
    builder.IsArchived(*input.IsArchived)
  }
  for _, c := range conditions {
    builder.Where(c)
  }
  if input.Sort != nil {
    if _, ok := byID[input.Sort.FieldID]; !ok {
      return nil, apierr.Validation("Invalid sort fieldId: %d", input.Sort.FieldID)
    }
    builder.SortBy(input.Sort.FieldID, input.Sort.Desc)
  }
  page := input.Page
  if page < 1 {
    page = 1
  }
  limit := input.Limit
  if limit <= 0 {
    limit = 10
  }
  builder.Paginate(page, limit)

  selectSQL, selectArgs := builder.SelectSQL()
  items, err := ps.itemRepo.SearchRows(ctx, nil, selectSQL, selectArgs)
  if err != nil {
    return nil, apierr.Wrap(err)
  }

  countSQL, countArgs := builder.CountSQL()
  total, err := ps.itemRepo.Count(ctx, nil, countSQL, countArgs)
  if err != nil {
    return nil, apierr.Wrap(err)
  }

  canSeeArchived := requestdata.Has(ctx, PermArchiveCreate)
  if !canSeeArchived {
    archSQL, archArgs := builder.ArchivedCountSQL()
    archived, err := ps.itemRepo.Count(ctx, nil, archSQL, archArgs)
    if err != nil {
      return nil, apierr.Wrap(err)
    }
    total -= archived
  }

  records, err := ps.assemble(ctx, series, items, fields, canSeeArchived)
  if err != nil {
    return nil, err
  }

  return &SearchResult{Data: records, TotalCount: total}, nil
}

// assemble joins raw attribute rows back to field metadata for a page of
// items: one batched attribute fetch, one batched archive check, one batched
// ERP lookup. Callers without archive visibility get archived items dropped.
func (ps *productService) assemble(ctx context.Context, series *types.Series, items []*types.Item, fields []*types.Field, canSeeArchived bool) ([]ProductRecord, error) {
  records := []ProductRecord{}
  if len(items) == 0 {
    return records, nil
  }

  itemIDs := make([]int, 0, len(items))
  for _, item := range items {
    itemIDs = append(itemIDs, item.ID)
  }

  var attrs []*types.ItemAttribute
  var archived map[int]bool
  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    var err error
    attrs, err = ps.attrRepo.GetByItemIDs(groupCtx, nil, itemIDs)
    return err
  })
  group.Go(func() error {
    var err error
    archived, err = ps.archiveRepo.MemberItemIDs(groupCtx, nil, itemIDs)
    return err
  })
  if err := group.Wait(); err != nil {
    return nil, apierr.Wrap(err)
  }
  valueOf := make(map[int]map[int]*string, len(items))
  for _, a := range attrs {
    if valueOf[a.ItemID] == nil {
      valueOf[a.ItemID] = make(map[int]*string)
    }
    valueOf[a.ItemID][a.FieldID] = a.Value
  }

  erpData, err := ps.lookupErp(ctx, fields, itemIDs, valueOf)
  if err != nil {
    return nil, err
  }

  canReadLimit := requestdata.Has(ctx, PermLimitFieldRead)

  for _, item := range items {
    if archived[item.ID] && !canSeeArchived {
      continue
    }
    record := ProductRecord{
      ItemID:     item.ID,
      SeriesID:   item.SeriesID,
      SeriesName: series.Name,
      Attributes: []AttributeOutput{},
      Erp:        []erp.Pair{},
      HasArchive: archived[item.ID],
      IsDeleted:  item.IsDeleted,
    }
    for _, field := range fields {
      if field.IsLimitField && !canReadLimit {
        continue
      }
      if field.IsErp {
        continue
      }
      kind, err := fieldtype.ParseKind(field.DataType)
      if err != nil {
        continue
      }
      record.Attributes = append(record.Attributes, AttributeOutput{
        FieldID:   field.ID,
        FieldName: field.Name,
        DataType:  field.DataType,
        Value:     fieldtype.Decode(kind, valueOf[item.ID][field.ID]),
      })
    }
    if erpData != nil {
      if key := erpKeyValue(fields, valueOf[item.ID]); key != "" {
        if pairs, ok := erpData[key]; ok {
          record.Erp = pairs
        }
      }
    }
    records = append(records, record)
  }
  return records, nil
}

// lookupErp collects the distinct ERP key values across the page and issues
// one batched lookup. Returns nil when the series has no search_erp field.
func (ps *productService) lookupErp(ctx context.Context, fields []*types.Field, itemIDs []int, valueOf map[int]map[int]*string) (map[string][]erp.Pair, error) {
  erpField := (*types.Field)(nil)
  for _, f := range fields {
    if f.SearchErp {
      erpField = f
      break
    }
  }
  if erpField == nil {
    return nil, nil
  }

  seen := map[string]bool{}
  keys := []string{}
  for _, id := range itemIDs {
    if v := valueOf[id][erpField.ID]; v != nil && *v != "" && !seen[*v] {
      seen[*v] = true
      keys = append(keys, *v)
    }
  }
  data, err := ps.erpClient.Read(ctx, keys)
  if err != nil {
    // degrade to empty placeholders rather than failing the request
    ps.log.Warn("ERP lookup failed", "error", err)
    data = map[string][]erp.Pair{}
  }
  return data, nil
}

func erpKeyValue(fields []*types.Field, values map[int]*string) string {
  for _, f := range fields {
    if f.SearchErp {
      if v := values[f.ID]; v != nil {
        return *v
      }
      return ""
    }
  }
  return ""
}

func (ps *productService) Read(ctx context.Context, itemID int) (*ProductRecord, error) {
  if err := requestdata.Require(ctx, PermProductRead); err != nil {
    return nil, err
  }
  if itemID <= 0 {
    return nil, apierr.Validation("Product ID is required")
  }

  item, err := ps.itemRepo.GetByID(ctx, nil, itemID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if item == nil {
    return nil, apierr.NotFound("Product not found")
  }

  series, err := ps.seriesRepo.GetActive(ctx, nil, item.SeriesID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if series == nil {
    return nil, apierr.NotFound("Series not found")
  }

  fields, _, err := ps.fieldSet(ctx, nil, item.SeriesID)
  if err != nil {
    return nil, err
  }

  records, err := ps.assemble(ctx, series, []*types.Item{item}, fields, true)
  if err != nil {
    return nil, err
  }
  if len(records) == 0 {
    return nil, apierr.NotFound("Product not found")
  }
  return &records[0], nil
}

func (ps *productService) Create(ctx context.Context, inputs []CreateItemInput) ([]CreatedItem, error) {
  if err := requestdata.Require(ctx, PermProductCreate); err != nil {
    return nil, err
  }
  if len(inputs) == 0 {
    return nil, apierr.Validation("Incomplete data")
  }

  var created []CreatedItem
  var files imageFiles
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, input := range inputs {
      if input.SeriesID == 0 || len(input.Attributes) == 0 {
        return apierr.Validation("Incomplete data")
      }
      series, err := ps.seriesRepo.GetActive(ctx, tx, input.SeriesID)
      if err != nil {
        return apierr.Wrap(err)
      }
      if series == nil {
        return apierr.NotFound("Series not found")
      }

      fields, byID, err := ps.fieldSet(ctx, tx, input.SeriesID)
      if err != nil {
        return err
      }

      supplied := make(map[int]bool, len(input.Attributes))
      for _, a := range input.Attributes {
        supplied[a.FieldID] = true
      }
      missing := missingRequired(fields, supplied, func(f *types.Field) bool { return f.IsRequired })
      if len(missing) > 0 {
        return apierr.Validation("Missing required field: [%s]", strings.Join(missing, ", "))
      }

      values, err := ps.normalizeAttributes(ctx, tx, byID, input.Attributes, &files)
      if err != nil {
        return err
      }

      item, err := ps.itemRepo.Create(ctx, tx, &types.Item{SeriesID: input.SeriesID})
      if err != nil {
        return apierr.Wrap(err)
      }

      // one attribute row per field of the series, null when not supplied
      attrRows := make([]*types.ItemAttribute, 0, len(fields))
      for _, f := range fields {
        attrRows = append(attrRows, &types.ItemAttribute{
          ItemID:  item.ID,
          FieldID: f.ID,
          Value:   values[f.ID],
        })
      }
      if err := ps.attrRepo.Create(ctx, tx, attrRows); err != nil {
        return apierr.Wrap(err)
      }
      created = append(created, CreatedItem{ID: item.ID, SeriesID: item.SeriesID})
    }
    return nil
  })
  if err != nil {
    files.rollback(ps.imageService)
    return nil, apierr.Wrap(err)
  }
  files.commit(ps.imageService)
  return created, nil
}

// normalizeAttributes coerces every supplied attribute value, collecting
// type errors so one response reports all invalid fields. Picture payloads
// are stored through the image service and replaced by the image id; the
// written file is registered with the caller's tracker so a rollback cleans
// it up.
func (ps *productService) normalizeAttributes(ctx context.Context, tx *gorm.DB, byID map[int]*types.Field, attributes []AttributeInput, files *imageFiles) (map[int]*string, error) {
  values := make(map[int]*string, len(attributes))
  var problems []string

  for _, attr := range attributes {
    field, ok := byID[attr.FieldID]
    if !ok {
      return nil, apierr.Validation("Invalid fieldId: %d", attr.FieldID)
    }
    if field.IsErp {
      // ERP-sourced fields are read-only, never stored as attributes
      continue
    }
    if attr.Value == nil {
      values[field.ID] = nil
      continue
    }
    kind, err := fieldtype.ParseKind(field.DataType)
    if err != nil {
      problems = append(problems, err.Error())
      continue
    }
    normalized, err := fieldtype.Normalize(field.Name, kind, attr.Value)
    if err != nil {
      problems = append(problems, err.Error())
      continue
    }
    if kind == fieldtype.Picture {
      raw, _ := attr.Value.(string)
      payload, err := fieldtype.DecodePicture(field.Name, raw)
      if err != nil {
        problems = append(problems, err.Error())
        continue
      }
      image, err := ps.imageService.Save(ctx, tx, payload)
      if err != nil {
        return nil, err
      }
      files.written = append(files.written, image.Path)
      normalized = strconv.Itoa(image.ID)
    }
    v := normalized
    values[field.ID] = &v
  }

  if len(problems) > 0 {
    return nil, apierr.Validation("%s", strings.Join(problems, " "))
  }
  return values, nil
}

func (ps *productService) Copy(ctx context.Context, itemIDs []int) ([]CreatedItem, error) {
  if err := requestdata.Require(ctx, PermProductCreate); err != nil {
    return nil, err
  }
  if len(itemIDs) == 0 {
    return nil, apierr.Validation("Incomplete data")
  }

  var created []CreatedItem
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, id := range itemIDs {
      source, err := ps.itemRepo.GetByID(ctx, tx, id)
      if err != nil {
        return apierr.Wrap(err)
      }
      if source == nil {
        return apierr.NotFound("Item not found")
      }
      attrs, err := ps.attrRepo.GetByItemIDs(ctx, tx, []int{id})
      if err != nil {
        return apierr.Wrap(err)
      }
      item, err := ps.itemRepo.Create(ctx, tx, &types.Item{SeriesID: source.SeriesID})
      if err != nil {
        return apierr.Wrap(err)
      }
      rows := make([]*types.ItemAttribute, 0, len(attrs))
      for _, a := range attrs {
        rows = append(rows, &types.ItemAttribute{ItemID: item.ID, FieldID: a.FieldID, Value: a.Value})
      }
      if err := ps.attrRepo.Create(ctx, tx, rows); err != nil {
        return apierr.Wrap(err)
      }
      created = append(created, CreatedItem{ID: item.ID, SeriesID: item.SeriesID})
    }
    return nil
  })
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  return created, nil
}

func (ps *productService) UpdateMulti(ctx context.Context, inputs []EditItemInput) error {
  if err := requestdata.Require(ctx, PermProductEdit); err != nil {
    return err
  }
  if len(inputs) == 0 {
    return apierr.Validation("Empty data")
  }

  var files imageFiles
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, input := range inputs {
      if input.ItemID == 0 {
        return apierr.Validation("Incomplete data")
      }
      item, err := ps.itemRepo.GetByID(ctx, tx, input.ItemID)
      if err != nil {
        return apierr.Wrap(err)
      }
      if item == nil {
        return apierr.NotFound("Item not found")
      }

      _, byID, err := ps.fieldSet(ctx, tx, item.SeriesID)
      if err != nil {
        return err
      }

      var problems []string
      for _, attr := range input.Attributes {
        field, ok := byID[attr.FieldID]
        if !ok {
          return apierr.NotFound("field_id:%d not found", attr.FieldID)
        }
        kind, kerr := fieldtype.ParseKind(field.DataType)
        if kerr != nil {
          problems = append(problems, kerr.Error())
          continue
        }

        var newValue *string
        if attr.Value != nil {
          normalized, nerr := fieldtype.Normalize(field.Name, kind, attr.Value)
          if nerr != nil {
            problems = append(problems, nerr.Error())
            continue
          }
          if kind == fieldtype.Picture {
            raw, _ := attr.Value.(string)
            payload, perr := fieldtype.DecodePicture(field.Name, raw)
            if perr != nil {
              problems = append(problems, perr.Error())
              continue
            }
            // replace the previous image row now; its file goes only
            // once the whole batch commits
            current, gerr := ps.attrRepo.Get(ctx, tx, input.ItemID, field.ID)
            if gerr != nil {
              return apierr.Wrap(gerr)
            }
            if current != nil && current.Value != nil {
              path, derr := ps.imageService.ReleaseByStoredValue(ctx, tx, *current.Value)
              if derr != nil {
                return derr
              }
              if path != "" {
                files.obsolete = append(files.obsolete, path)
              }
            }
            image, serr := ps.imageService.Save(ctx, tx, payload)
            if serr != nil {
              return serr
            }
            files.written = append(files.written, image.Path)
            normalized = strconv.Itoa(image.ID)
          }
          newValue = &normalized
        }
        if err := ps.attrRepo.SetValue(ctx, tx, input.ItemID, field.ID, newValue); err != nil {
          return apierr.Wrap(err)
        }
      }
      if len(problems) > 0 {
        return apierr.Validation("%s", strings.Join(problems, " "))
      }

      if input.IsDeleted != nil {
        if err := ps.itemRepo.SetDeleted(ctx, tx, []int{input.ItemID}, *input.IsDeleted); err != nil {
          return apierr.Wrap(err)
        }
      }
    }
    return nil
  })
  if err != nil {
    files.rollback(ps.imageService)
    return apierr.Wrap(err)
  }
  files.commit(ps.imageService)
  return nil
}

// Delete soft-deletes: attribute history stays intact.
func (ps *productService) Delete(ctx context.Context, itemIDs []int) error {
  if err := requestdata.Require(ctx, PermProductDelete); err != nil {
    return err
  }
  if len(itemIDs) == 0 {
    return apierr.Validation("Invalid data")
  }
  if err := ps.itemRepo.SetDeleted(ctx, nil, itemIDs, true); err != nil {
    return apierr.Wrap(err)
  }
  return nil
}

func (ps *productService) Export(ctx context.Context, input SearchInput) (*ExportResult, error) {
  // export reuses the search pipeline without pagination
  input.Page = 1
  input.Limit = 0

  if err := requestdata.Require(ctx, PermProductRead); err != nil {
    return nil, err
  }

  series, err := ps.seriesRepo.GetActive(ctx, nil, input.SeriesID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if series == nil {
    return nil, apierr.NotFound("Series not found")
  }

  fields, byID, err := ps.fieldSet(ctx, nil, input.SeriesID)
  if err != nil {
    return nil, err
  }

  missing := missingRequired(fields, suppliedFieldIDs(input.Filters), func(f *types.Field) bool { return f.IsFiltered })
  if len(missing) > 0 {
    return nil, apierr.Validation("Missing required field: [%s]", strings.Join(missing, ", "))
  }

  conditions, err := ps.compileFilters(input.Filters, byID)
  if err != nil {
    return nil, err
  }

  builder := search.NewBuilder(ps.dialect(), input.SeriesID).IsDeleted(input.IsDeleted)
  if input.IsArchived != nil {
    builder.IsArchived(*input.IsArchived)
  }
  for _, c := range conditions {
    builder.Where(c)
  }
  if input.Sort != nil {
    if _, ok := byID[input.Sort.FieldID]; !ok {
      return nil, apierr.Validation("Invalid sort fieldId: %d", input.Sort.FieldID)
    }
    builder.SortBy(input.Sort.FieldID, input.Sort.Desc)
  }

  selectSQL, selectArgs := builder.SelectSQL()
  items, err := ps.itemRepo.SearchRows(ctx, nil, selectSQL, selectArgs)
  if err != nil {
    return nil, apierr.Wrap(err)
  }

  records, err := ps.assemble(ctx, series, items, fields, requestdata.Has(ctx, PermArchiveCreate))
  if err != nil {
    return nil, err
  }

  content, err := renderCSV(fields, records, requestdata.Has(ctx, PermLimitFieldRead))
  if err != nil {
    return nil, apierr.Storage(err)
  }
  return &ExportResult{
    Filename: fmt.Sprintf("%s-export.csv", series.Name),
    Content:  content,
  }, nil
}
