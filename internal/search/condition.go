package search

import (
  "fmt"

  "github.com/pdmlab/catalog-backend/internal/fieldtype"
)

// Condition is one compiled filter: a correlated existence subquery over the
// attribute table plus its bound parameters. Values are always bound, never
// interpolated; field ids are bound as integers.
type Condition struct {
  SQL  string
  Args []interface{}
}

const existsShape = `EXISTS (SELECT 1 FROM item_attribute WHERE item_attribute.item_id = item.id AND item_attribute.field_id = ? AND %s)`

// Compile produces the subquery fragment for one (field, operator, value)
// filter. The value must already be normalized by fieldtype.Normalize; for
// string fields the caller wraps it with %...% before handing it in.
//
// greater/less are inclusive (>= / <=) on purpose, matching the observed
// production behavior.
func Compile(dialect string, fieldID int, kind fieldtype.Kind, op fieldtype.Operator, value string) Condition {
  predicate := `item_attribute.value = ?`
  args := []interface{}{fieldID, value}

  switch kind {
  case fieldtype.String:
    predicate = `LOWER(item_attribute.value) LIKE LOWER(?)`
  case fieldtype.Number:
    switch op {
    case fieldtype.OpGreater:
      predicate = `CAST(item_attribute.value AS NUMERIC) >= ?`
    case fieldtype.OpLess:
      predicate = `CAST(item_attribute.value AS NUMERIC) <= ?`
    }
  case fieldtype.DateTime:
    switch op {
    case fieldtype.OpGreater:
      predicate = fmt.Sprintf(`%s >= %s`, dateExpr(dialect, "item_attribute.value"), dateExpr(dialect, "?"))
    case fieldtype.OpLess:
      predicate = fmt.Sprintf(`%s <= %s`, dateExpr(dialect, "item_attribute.value"), dateExpr(dialect, "?"))
    default:
      // equals compares date-only, ignoring any time component
      predicate = fmt.Sprintf(`%s = %s`, dateExpr(dialect, "item_attribute.value"), dateExpr(dialect, "?"))
    }
  }

  return Condition{
    SQL:  fmt.Sprintf(existsShape, predicate),
    Args: args,
  }
}

// dateExpr casts a stored string to a date in the connected dialect.
func dateExpr(dialect, operand string) string {
  if dialect == "sqlite" {
    return fmt.Sprintf("date(%s)", operand)
  }
  return fmt.Sprintf("CAST(%s AS DATE)", operand)
}
