package fieldtype

import (
  "fmt"
  "strings"
)

// Kind is the closed set of field data types a series schema may declare.
// Dispatch happens through the registry table below rather than string
// comparison on the stored data_type column.
type Kind int

const (
  String Kind = iota
  Number
  Boolean
  DateTime
  Picture
)

var kindNames = map[Kind]string{
  String:   "string",
  Number:   "number",
  Boolean:  "boolean",
  DateTime: "datetime",
  Picture:  "picture",
}

func (k Kind) String() string {
  if name, ok := kindNames[k]; ok {
    return name
  }
  return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a stored data_type value onto its Kind. Matching is
// case-insensitive because early schema rows carry mixed-case values.
func ParseKind(s string) (Kind, error) {
  switch strings.ToLower(strings.TrimSpace(s)) {
  case "string":
    return String, nil
  case "number":
    return Number, nil
  case "boolean":
    return Boolean, nil
  case "datetime":
    return DateTime, nil
  case "picture":
    return Picture, nil
  }
  return String, fmt.Errorf("unknown data type: %q", s)
}

// Operator names the comparison a search filter requests.
type Operator string

const (
  OpEquals  Operator = "equals"
  OpGreater Operator = "greater"
  OpLess    Operator = "less"
)

// entry holds per-kind behavior. The registry is built once and never
// mutated afterwards.
type entry struct {
  normalize func(field string, raw interface{}) (string, error)
  decode    func(stored string) interface{}
  operators map[Operator]bool
}

var registry map[Kind]entry

func init() {
  ordered := map[Operator]bool{OpEquals: true, OpGreater: true, OpLess: true}
  registry = map[Kind]entry{
    String: {
      normalize: normalizeString,
      decode:    func(v string) interface{} { return v },
      // operator is ignored for strings: search always does a
      // case-insensitive substring match
      operators: map[Operator]bool{OpEquals: true},
    },
    Number: {
      normalize: normalizeNumber,
      decode:    decodeNumber,
      operators: ordered,
    },
    Boolean: {
      normalize: normalizeBoolean,
      decode:    func(v string) interface{} { return v == "1" },
      operators: map[Operator]bool{OpEquals: true},
    },
    DateTime: {
      normalize: normalizeDateTime,
      decode:    func(v string) interface{} { return v },
      operators: ordered,
    },
    Picture: {
      normalize: normalizePicture,
      decode:    func(v string) interface{} { return "/image/" + v },
      operators: map[Operator]bool{OpEquals: true},
    },
  }
}

// Supports reports whether the kind defines the given operator. Unsupported
// combinations fall back to raw string equality in the condition compiler,
// they are not an input error.
func Supports(k Kind, op Operator) bool {
  return registry[k].operators[op]
}

// Normalize validates raw against the kind's rules and returns the canonical
// string stored in item_attribute.value. Picture values are validated only;
// the caller stores the decoded payload and replaces the value with the
// resulting image id.
func Normalize(fieldName string, k Kind, raw interface{}) (string, error) {
  e, ok := registry[k]
  if !ok {
    return "", &TypeError{Field: fieldName, Expected: k.String(), Got: goTypeName(raw)}
  }
  return e.normalize(fieldName, raw)
}

// Decode re-derives the typed output value from the stored string.
func Decode(k Kind, stored *string) interface{} {
  if stored == nil {
    return nil
  }
  e, ok := registry[k]
  if !ok {
    return *stored
  }
  return e.decode(*stored)
}
