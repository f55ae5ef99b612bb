package internal

import (
	"encoding/json"
	"time"

	mapset "github.com/deckarep/golang-set"
)

type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInteger  ColumnType = "integer"
	TypeFloat    ColumnType = "float"
	TypeBoolean  ColumnType = "boolean"
	TypeDatetime ColumnType = "datetime"
	TypeUnknown  ColumnType = ""
)

// unknown types are written as null
func (t ColumnType) MarshalJSON() ([]byte, error) {
	if t == TypeUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

func columnType(v any) ColumnType {
	switch v.(type) {
	case string:
		return TypeString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32, float64:
		return TypeFloat
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeDatetime
	default:
		return TypeUnknown
	}
}

// columnSet collects columns across entities in first-seen order.
// A column's type comes from the first entity that carries the field.
type columnSet struct {
	seen    mapset.Set
	columns []Column
}

func newColumnSet() *columnSet {
	return &columnSet{seen: mapset.NewThreadUnsafeSet(), columns: []Column{}}
}

func (s *columnSet) add(entity Entity) {
	for name, value := range entity.Fields() {
		if s.seen.Add(name) {
			s.columns = append(s.columns, Column{Name: name, Type: columnType(Unwrap(value))})
		}
	}
}

func (s *columnSet) names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}
