package services

import (
  "bytes"
  "encoding/csv"
  "fmt"
  "github.com/pdmlab/catalog-backend/internal/types"
)

// renderCSV writes one row per item with a column per visible field.
// Picture/ERP fields carry their decoded representation as-is.
func renderCSV(fields []*types.Field, records []ProductRecord, includeLimit bool) ([]byte, error) {
  visible := make([]*types.Field, 0, len(fields))
  for _, f := range fields {
    if f.IsErp {
      continue
    }
    if f.IsLimitField && !includeLimit {
      continue
    }
    visible = append(visible, f)
  }

  var buf bytes.Buffer
  w := csv.NewWriter(&buf)

  header := make([]string, 0, len(visible)+1)
  header = append(header, "itemId")
  for _, f := range visible {
    header = append(header, f.Name)
  }
  if err := w.Write(header); err != nil {
    return nil, err
  }

  for _, record := range records {
    valueOf := make(map[int]interface{}, len(record.Attributes))
    for _, a := range record.Attributes {
      valueOf[a.FieldID] = a.Value
    }
    row := make([]string, 0, len(visible)+1)
    row = append(row, fmt.Sprintf("%d", record.ItemID))
    for _, f := range visible {
      v := valueOf[f.ID]
      if v == nil {
        row = append(row, "")
        continue
      }
      row = append(row, fmt.Sprint(v))
    }
    if err := w.Write(row); err != nil {
      return nil, err
    }
  }

  w.Flush()
  if err := w.Error(); err != nil {
    return nil, err
  }
  return buf.Bytes(), nil
}
