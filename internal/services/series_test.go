package services

import (
  "strings"
  "testing"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/types"
)

func TestSeriesCreate_WithFields(t *testing.T) {
  fx := newFixture(t)

  created, err := fx.series.Create(allPermsCtx(), CreateSeriesInput{
    Name: "Fasteners",
    Fields: []FieldInput{
      {Name: "name", DataType: "string", IsRequired: true, IsFiltered: true},
      {Name: "price", DataType: "Number"},
      {Name: "product_no", DataType: "string", SearchErp: true},
    },
  })
  if err != nil {
    t.Fatalf("create series: %v", err)
  }
  if created.ID == 0 || len(created.Fields) != 3 {
    t.Fatalf("unexpected result: %+v", created)
  }
  if created.Fields[1].DataType != "number" {
    t.Fatalf("data type must be stored lowercase, got %q", created.Fields[1].DataType)
  }
  if created.Fields[0].Sequence != 1 || created.Fields[2].Sequence != 3 {
    t.Fatalf("sequence must default to declaration order: %+v", created.Fields)
  }
}

func TestSeriesCreate_RejectsUnknownTypeAndDuplicateErpKey(t *testing.T) {
  fx := newFixture(t)

  _, err := fx.series.Create(allPermsCtx(), CreateSeriesInput{
    Name:   "Broken",
    Fields: []FieldInput{{Name: "weight", DataType: "float"}},
  })
  if apierr.StatusOf(err) != 400 {
    t.Fatalf("unknown data type must 400, got %v", err)
  }

  _, err = fx.series.Create(allPermsCtx(), CreateSeriesInput{
    Name: "Broken",
    Fields: []FieldInput{
      {Name: "a", DataType: "string", SearchErp: true},
      {Name: "b", DataType: "string", SearchErp: true},
    },
  })
  if apierr.StatusOf(err) != 400 {
    t.Fatalf("two ERP key fields must 400, got %v", err)
  }
}

func TestSeriesUpdate_BlockedOnceItemsExist(t *testing.T) {
  fx := newFixture(t)
  seriesID, _, _, _ := boltFixture(t, fx)

  err := fx.series.Update(allPermsCtx(), seriesID, "Renamed")
  if apierr.StatusOf(err) != 400 {
    t.Fatalf("rename with items must 400, got %v", err)
  }

  empty, err := fx.series.Create(allPermsCtx(), CreateSeriesInput{
    Name:   "Empty",
    Fields: []FieldInput{{Name: "name", DataType: "string"}},
  })
  if err != nil {
    t.Fatalf("create: %v", err)
  }
  if err := fx.series.Update(allPermsCtx(), empty.ID, "Renamed"); err != nil {
    t.Fatalf("rename of empty series: %v", err)
  }
  got, err := fx.series.Read(allPermsCtx(), empty.ID)
  if err != nil {
    t.Fatalf("read: %v", err)
  }
  if got.Name != "Renamed" {
    t.Fatalf("name = %q", got.Name)
  }
}

func TestSeriesDelete_HidesFromListAndSearch(t *testing.T) {
  fx := newFixture(t)
  seriesID, _, _, _ := boltFixture(t, fx)

  if err := fx.series.Delete(allPermsCtx(), seriesID); err != nil {
    t.Fatalf("delete: %v", err)
  }
  if _, err := fx.series.Read(allPermsCtx(), seriesID); apierr.StatusOf(err) != 404 {
    t.Fatalf("deleted series must 404, got %v", err)
  }
  if _, err := fx.products.Search(allPermsCtx(), SearchInput{SeriesID: seriesID}); apierr.StatusOf(err) != 404 {
    t.Fatalf("search on a deleted series must 404, got %v", err)
  }

  // row survives, only the status flips
  var row types.Series
  if err := fx.db.First(&row, seriesID).Error; err != nil {
    t.Fatalf("load row: %v", err)
  }
  if row.Status != types.SeriesStatusDeleted {
    t.Fatalf("status = %d", row.Status)
  }
}

func TestSeriesList_KeywordFilter(t *testing.T) {
  fx := newFixture(t)
  for _, name := range []string{"Bolts", "Nuts", "Bolt anchors"} {
    if _, err := fx.series.Create(allPermsCtx(), CreateSeriesInput{
      Name:   name,
      Fields: []FieldInput{{Name: "name", DataType: "string"}},
    }); err != nil {
      t.Fatalf("create %s: %v", name, err)
    }
  }

  rows, err := fx.series.List(allPermsCtx(), "Bolt", 1, 10)
  if err != nil {
    t.Fatalf("list: %v", err)
  }
  if len(rows) != 2 {
    t.Fatalf("expected 2 matches, got %d", len(rows))
  }
  for _, r := range rows {
    if !strings.Contains(r.Name, "Bolt") {
      t.Fatalf("unexpected row %q", r.Name)
    }
  }
}
