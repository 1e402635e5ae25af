package fieldtype

import (
  "encoding/base64"
  "encoding/json"
  "fmt"
  "strconv"
  "strings"
  "time"

  "github.com/pdmlab/catalog-backend/internal/imaging"
)

// TypeError reports a value that does not match its field's declared type.
// The message shape is part of the API contract.
type TypeError struct {
  Field    string
  Expected string
  Got      string
}

func (e *TypeError) Error() string {
  return fmt.Sprintf("Incorrect data type for field: %s. Expected %s, got %s.", e.Field, e.Expected, e.Got)
}

// dateFormats are tried in order; the first match wins. The order is part of
// observed behavior, ambiguous inputs like 01/07/25 resolve to whichever
// format matches first.
var dateFormats = []string{
  "2006/01/02",
  "01/02/06",
  "01/02/2006",
  "2006-01-02",
  "02/01/2006",
  "02-01-2006",
}

// DateStorageFormat is the canonical stored representation of datetimes.
const DateStorageFormat = "2006-01-02"

func goTypeName(raw interface{}) string {
  switch raw.(type) {
  case nil:
    return "null"
  case string:
    return "string"
  case bool:
    return "boolean"
  case float32, float64, int, int32, int64, json.Number:
    return "number"
  default:
    return fmt.Sprintf("%T", raw)
  }
}

func normalizeString(field string, raw interface{}) (string, error) {
  switch v := raw.(type) {
  case string:
    return v, nil
  case nil:
    return "", &TypeError{Field: field, Expected: "string", Got: "null"}
  case map[string]interface{}, []interface{}:
    return "", &TypeError{Field: field, Expected: "string", Got: goTypeName(raw)}
  default:
    return fmt.Sprint(v), nil
  }
}

func normalizeNumber(field string, raw interface{}) (string, error) {
  switch v := raw.(type) {
  case float64:
    return strconv.FormatFloat(v, 'f', -1, 64), nil
  case float32:
    return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
  case int:
    return strconv.Itoa(v), nil
  case int64:
    return strconv.FormatInt(v, 10), nil
  case json.Number:
    if _, err := v.Float64(); err != nil {
      return "", &TypeError{Field: field, Expected: "number", Got: "string"}
    }
    return v.String(), nil
  case string:
    if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
      return "", &TypeError{Field: field, Expected: "number", Got: "string"}
    }
    return strings.TrimSpace(v), nil
  default:
    return "", &TypeError{Field: field, Expected: "number", Got: goTypeName(raw)}
  }
}

// decodeNumber keeps the stored textual form so callers render numbers
// without float rounding artifacts.
func decodeNumber(stored string) interface{} {
  return json.Number(stored)
}

func normalizeBoolean(field string, raw interface{}) (string, error) {
  switch v := raw.(type) {
  case bool:
    if v {
      return "1", nil
    }
    return "0", nil
  case string:
    switch strings.ToLower(strings.TrimSpace(v)) {
    case "1", "true":
      return "1", nil
    case "0", "false":
      return "0", nil
    }
    return "", &TypeError{Field: field, Expected: "boolean", Got: "string"}
  case float64:
    if v == 1 {
      return "1", nil
    }
    if v == 0 {
      return "0", nil
    }
    return "", &TypeError{Field: field, Expected: "boolean", Got: "number"}
  default:
    return "", &TypeError{Field: field, Expected: "boolean", Got: goTypeName(raw)}
  }
}

func normalizeDateTime(field string, raw interface{}) (string, error) {
  s, ok := raw.(string)
  if !ok {
    return "", &TypeError{Field: field, Expected: "datetime", Got: goTypeName(raw)}
  }
  s = strings.TrimSpace(s)
  for _, layout := range dateFormats {
    if t, err := time.Parse(layout, s); err == nil {
      return t.Format(DateStorageFormat), nil
    }
  }
  return "", &TypeError{Field: field, Expected: "datetime", Got: "string"}
}

func normalizePicture(field string, raw interface{}) (string, error) {
  s, ok := raw.(string)
  if !ok {
    return "", &TypeError{Field: field, Expected: "picture", Got: goTypeName(raw)}
  }
  if _, err := DecodePicture(field, s); err != nil {
    return "", err
  }
  // stored value becomes the image id once the payload is persisted
  return s, nil
}

// DecodePicture decodes a base64 image payload (with an optional data-URI
// prefix) and verifies by content sniffing that it is a JPEG or PNG.
func DecodePicture(field, raw string) ([]byte, error) {
  payload := raw
  if strings.HasPrefix(payload, "data:") {
    idx := strings.Index(payload, ",")
    if idx < 0 {
      return nil, &TypeError{Field: field, Expected: "picture", Got: "string"}
    }
    payload = payload[idx+1:]
  }
  data, err := base64.StdEncoding.DecodeString(payload)
  if err != nil {
    return nil, &TypeError{Field: field, Expected: "picture", Got: "string"}
  }
  if _, err := imaging.Sniff(data); err != nil {
    return nil, &TypeError{Field: field, Expected: "picture", Got: "string"}
  }
  return data, nil
}
