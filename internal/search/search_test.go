package search

import (
  "fmt"
  "testing"

  "gorm.io/gorm"

  "github.com/pdmlab/catalog-backend/internal/db"
  "github.com/pdmlab/catalog-backend/internal/fieldtype"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type itemRow struct {
  ID        int
  SeriesID  int
  IsDeleted bool
}

func strptr(s string) *string { return &s }

// widgetFixture creates the "Widgets" series with a string name field (1) and
// a number price field (2) plus one item: name=Bolt, price=9.99.
func widgetFixture(t *testing.T) *gorm.DB {
  t.Helper()
  gdb, err := db.OpenTest()
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  series := types.Series{ID: 1, Name: "Widgets", CreatedBy: 1, Status: types.SeriesStatusActive}
  if err := gdb.Create(&series).Error; err != nil {
    t.Fatalf("create series: %v", err)
  }
  fields := []types.Field{
    {ID: 1, SeriesID: 1, Name: "name", DataType: "string", Sequence: 1},
    {ID: 2, SeriesID: 1, Name: "price", DataType: "number", Sequence: 2},
  }
  if err := gdb.Create(&fields).Error; err != nil {
    t.Fatalf("create fields: %v", err)
  }
  item := types.Item{ID: 1, SeriesID: 1}
  if err := gdb.Create(&item).Error; err != nil {
    t.Fatalf("create item: %v", err)
  }
  attrs := []types.ItemAttribute{
    {ItemID: 1, FieldID: 1, Value: strptr("Bolt")},
    {ItemID: 1, FieldID: 2, Value: strptr("9.99")},
  }
  if err := gdb.Create(&attrs).Error; err != nil {
    t.Fatalf("create attributes: %v", err)
  }
  return gdb
}

func runSelect(t *testing.T, gdb *gorm.DB, b *Builder) []itemRow {
  t.Helper()
  sqlStr, args := b.SelectSQL()
  var rows []itemRow
  if err := gdb.Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
    t.Fatalf("select: %v\nsql: %s", err, sqlStr)
  }
  return rows
}

func runCount(t *testing.T, gdb *gorm.DB, sqlStr string, args []interface{}) int64 {
  t.Helper()
  var n int64
  if err := gdb.Raw(sqlStr, args...).Scan(&n).Error; err != nil {
    t.Fatalf("count: %v\nsql: %s", err, sqlStr)
  }
  return n
}

func TestNumberGreater_IsInclusive(t *testing.T) {
  gdb := widgetFixture(t)

  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpGreater, "5"))
  rows := runSelect(t, gdb, b)
  if len(rows) != 1 || rows[0].ID != 1 {
    t.Fatalf("price >= 5 should match the 9.99 item, got %v", rows)
  }

  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpGreater, "15"))
  if rows := runSelect(t, gdb, b); len(rows) != 0 {
    t.Fatalf("price >= 15 should match nothing, got %v", rows)
  }

  // boundary: 9.99 >= 9.99
  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpGreater, "9.99"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("greater is inclusive, 9.99 must match itself")
  }
}

func TestNumberLess_IsInclusive(t *testing.T) {
  gdb := widgetFixture(t)
  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpLess, "9.99"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("less is inclusive, 9.99 must match itself")
  }
}

func TestStringFilter_CaseInsensitiveSubstring(t *testing.T) {
  gdb := widgetFixture(t)
  // the orchestrator wraps string values with %...%
  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 1, fieldtype.String, fieldtype.OpEquals, "%OL%"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("case-insensitive substring should match Bolt")
  }
  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 1, fieldtype.String, fieldtype.OpEquals, "%nut%"))
  if rows := runSelect(t, gdb, b); len(rows) != 0 {
    t.Fatalf("non-matching substring should exclude Bolt")
  }
}

func TestConditionsAreANDed(t *testing.T) {
  gdb := widgetFixture(t)
  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 1, fieldtype.String, fieldtype.OpEquals, "%bolt%")).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpGreater, "5"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("both conditions hold, item expected")
  }
  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 1, fieldtype.String, fieldtype.OpEquals, "%bolt%")).
    Where(Compile("sqlite", 2, fieldtype.Number, fieldtype.OpGreater, "15"))
  if rows := runSelect(t, gdb, b); len(rows) != 0 {
    t.Fatalf("one failing condition must exclude the item")
  }
}

func TestDateTimeComparisons(t *testing.T) {
  gdb := widgetFixture(t)
  field := types.Field{ID: 3, SeriesID: 1, Name: "shipped", DataType: "datetime", Sequence: 3}
  if err := gdb.Create(&field).Error; err != nil {
    t.Fatalf("create field: %v", err)
  }
  attr := types.ItemAttribute{ItemID: 1, FieldID: 3, Value: strptr("2025-01-07")}
  if err := gdb.Create(&attr).Error; err != nil {
    t.Fatalf("create attribute: %v", err)
  }

  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 3, fieldtype.DateTime, fieldtype.OpGreater, "2025-01-01"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("2025-01-07 >= 2025-01-01 should match")
  }
  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 3, fieldtype.DateTime, fieldtype.OpLess, "2025-01-01"))
  if rows := runSelect(t, gdb, b); len(rows) != 0 {
    t.Fatalf("2025-01-07 <= 2025-01-01 should not match")
  }
  b = NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 3, fieldtype.DateTime, fieldtype.OpEquals, "2025-01-07"))
  if rows := runSelect(t, gdb, b); len(rows) != 1 {
    t.Fatalf("date equality should match")
  }
}

func TestPagination_PageTwoOfTwentyFive(t *testing.T) {
  gdb, err := db.OpenTest()
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  series := types.Series{ID: 1, Name: "Widgets", CreatedBy: 1, Status: types.SeriesStatusActive}
  if err := gdb.Create(&series).Error; err != nil {
    t.Fatalf("create series: %v", err)
  }
  for i := 1; i <= 25; i++ {
    if err := gdb.Create(&types.Item{ID: i, SeriesID: 1}).Error; err != nil {
      t.Fatalf("create item %d: %v", i, err)
    }
  }

  b := NewBuilder("sqlite", 1).Paginate(2, 10)
  rows := runSelect(t, gdb, b)
  if len(rows) != 10 {
    t.Fatalf("expected 10 rows on page 2, got %d", len(rows))
  }
  if rows[0].ID != 11 || rows[9].ID != 20 {
    t.Fatalf("page 2 should hold items 11..20, got %d..%d", rows[0].ID, rows[9].ID)
  }

  countSQL, countArgs := b.CountSQL()
  if n := runCount(t, gdb, countSQL, countArgs); n != 25 {
    t.Fatalf("total count = %d, want 25", n)
  }
}

func TestSortByAttributeValue(t *testing.T) {
  gdb, err := db.OpenTest()
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  series := types.Series{ID: 1, Name: "Widgets", CreatedBy: 1, Status: types.SeriesStatusActive}
  if err := gdb.Create(&series).Error; err != nil {
    t.Fatalf("create series: %v", err)
  }
  field := types.Field{ID: 1, SeriesID: 1, Name: "name", DataType: "string"}
  if err := gdb.Create(&field).Error; err != nil {
    t.Fatalf("create field: %v", err)
  }
  names := []string{"cherry", "apple", "banana"}
  for i, name := range names {
    id := i + 1
    if err := gdb.Create(&types.Item{ID: id, SeriesID: 1}).Error; err != nil {
      t.Fatalf("create item: %v", err)
    }
    v := name
    if err := gdb.Create(&types.ItemAttribute{ItemID: id, FieldID: 1, Value: &v}).Error; err != nil {
      t.Fatalf("create attribute: %v", err)
    }
  }

  b := NewBuilder("sqlite", 1).SortBy(1, false)
  rows := runSelect(t, gdb, b)
  got := fmt.Sprintf("%d,%d,%d", rows[0].ID, rows[1].ID, rows[2].ID)
  if got != "2,3,1" {
    t.Fatalf("ascending sort by value: got order %s, want 2,3,1", got)
  }

  b = NewBuilder("sqlite", 1).SortBy(1, true)
  rows = runSelect(t, gdb, b)
  got = fmt.Sprintf("%d,%d,%d", rows[0].ID, rows[1].ID, rows[2].ID)
  if got != "1,3,2" {
    t.Fatalf("descending sort by value: got order %s, want 1,3,2", got)
  }
}

func TestArchiveAndDeletionPredicates(t *testing.T) {
  gdb := widgetFixture(t)
  // second item: archived
  if err := gdb.Create(&types.Item{ID: 2, SeriesID: 1}).Error; err != nil {
    t.Fatalf("create item: %v", err)
  }
  if err := gdb.Create(&types.Archive{ItemID: 2, ArchivedBy: 1}).Error; err != nil {
    t.Fatalf("create archive: %v", err)
  }
  // third item: soft-deleted
  if err := gdb.Create(&types.Item{ID: 3, SeriesID: 1, IsDeleted: true}).Error; err != nil {
    t.Fatalf("create item: %v", err)
  }

  b := NewBuilder("sqlite", 1)
  if rows := runSelect(t, gdb, b); len(rows) != 2 {
    t.Fatalf("default search should return live items 1 and 2, got %v", rows)
  }

  b = NewBuilder("sqlite", 1).IsDeleted(true)
  rows := runSelect(t, gdb, b)
  if len(rows) != 1 || rows[0].ID != 3 {
    t.Fatalf("isDeleted=1 should return only item 3, got %v", rows)
  }

  b = NewBuilder("sqlite", 1).IsArchived(true)
  rows = runSelect(t, gdb, b)
  if len(rows) != 1 || rows[0].ID != 2 {
    t.Fatalf("isArchived=1 should return only item 2, got %v", rows)
  }

  b = NewBuilder("sqlite", 1).IsArchived(false)
  rows = runSelect(t, gdb, b)
  if len(rows) != 1 || rows[0].ID != 1 {
    t.Fatalf("isArchived=0 should return only item 1, got %v", rows)
  }

  b = NewBuilder("sqlite", 1)
  archSQL, archArgs := b.ArchivedCountSQL()
  if n := runCount(t, gdb, archSQL, archArgs); n != 1 {
    t.Fatalf("archived count = %d, want 1", n)
  }
}

func TestValuesAreBoundNotInterpolated(t *testing.T) {
  gdb := widgetFixture(t)
  // a hostile value must be treated as data
  b := NewBuilder("sqlite", 1).
    Where(Compile("sqlite", 1, fieldtype.String, fieldtype.OpEquals, "%'; DROP TABLE item;--%"))
  if rows := runSelect(t, gdb, b); len(rows) != 0 {
    t.Fatalf("injection attempt matched rows: %v", rows)
  }
  var n int64
  if err := gdb.Raw(`SELECT COUNT(*) FROM item`).Scan(&n).Error; err != nil {
    t.Fatalf("item table should survive: %v", err)
  }
}
