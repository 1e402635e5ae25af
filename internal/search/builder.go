package search

import (
  "strings"
)

// Builder assembles the full item search: base predicate, AND-ed compiled
// conditions, archive/deletion filters, sort, and pagination, plus the
// matching count queries.
type Builder struct {
  dialect    string
  seriesID   int
  isDeleted  bool
  isArchived *bool
  conditions []Condition
  sortField  int
  sortDesc   bool
  hasSort    bool
  page       int
  limit      int
}

func NewBuilder(dialect string, seriesID int) *Builder {
  return &Builder{dialect: dialect, seriesID: seriesID, page: 1}
}

func (b *Builder) IsDeleted(deleted bool) *Builder {
  b.isDeleted = deleted
  return b
}

// IsArchived restricts to archived (true) or unarchived (false) items; left
// unset, both are returned.
func (b *Builder) IsArchived(archived bool) *Builder {
  b.isArchived = &archived
  return b
}

func (b *Builder) Where(c Condition) *Builder {
  b.conditions = append(b.conditions, c)
  return b
}

func (b *Builder) SortBy(fieldID int, desc bool) *Builder {
  b.sortField = fieldID
  b.sortDesc = desc
  b.hasSort = true
  return b
}

// Paginate sets a 1-indexed page and page size. limit <= 0 disables
// pagination (used by export).
func (b *Builder) Paginate(page, limit int) *Builder {
  if page < 1 {
    page = 1
  }
  b.page = page
  b.limit = limit
  return b
}

func (b *Builder) predicate() (string, []interface{}) {
  var sb strings.Builder
  args := []interface{}{b.seriesID, b.isDeleted}

  sb.WriteString(`item.series_id = ? AND item.is_deleted = ?`)

  if b.isArchived != nil {
    if *b.isArchived {
      sb.WriteString(` AND EXISTS (SELECT 1 FROM archive WHERE archive.item_id = item.id)`)
    } else {
      sb.WriteString(` AND NOT EXISTS (SELECT 1 FROM archive WHERE archive.item_id = item.id)`)
    }
  }

  for _, c := range b.conditions {
    sb.WriteString(` AND `)
    sb.WriteString(c.SQL)
    args = append(args, c.Args...)
  }

  return sb.String(), args
}

// SelectSQL returns the page query. Sorting on an attribute orders by a
// correlated subquery over the stored string value.
func (b *Builder) SelectSQL() (string, []interface{}) {
  where, args := b.predicate()

  var sb strings.Builder
  sb.WriteString(`SELECT item.id, item.series_id, item.is_deleted FROM item WHERE `)
  sb.WriteString(where)

  if b.hasSort {
    sb.WriteString(` ORDER BY (SELECT item_attribute.value FROM item_attribute WHERE item_attribute.item_id = item.id AND item_attribute.field_id = ?)`)
    args = append(args, b.sortField)
    if b.sortDesc {
      sb.WriteString(` DESC`)
    } else {
      sb.WriteString(` ASC`)
    }
    sb.WriteString(`, item.id ASC`)
  } else {
    sb.WriteString(` ORDER BY item.id ASC`)
  }

  if b.limit > 0 {
    sb.WriteString(` LIMIT ? OFFSET ?`)
    args = append(args, b.limit, (b.page-1)*b.limit)
  }

  return sb.String(), args
}

// CountSQL returns the total-count query over the same predicate.
func (b *Builder) CountSQL() (string, []interface{}) {
  where, args := b.predicate()
  return `SELECT COUNT(*) FROM item WHERE ` + where, args
}

// ArchivedCountSQL counts the matching items that carry an archive mark. The
// orchestrator subtracts it from the total for callers who cannot see
// archived items.
func (b *Builder) ArchivedCountSQL() (string, []interface{}) {
  where, args := b.predicate()
  return `SELECT COUNT(*) FROM item WHERE ` + where +
    ` AND EXISTS (SELECT 1 FROM archive WHERE archive.item_id = item.id)`, args
}
