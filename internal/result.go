package internal

import (
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Row = orderedmap.OrderedMap[string, any]

type queryResult struct {
	Columns []Column `json:"columns"`
	Rows    []*Row   `json:"rows"`
}

// entityRow projects an entity onto columns by field name.
// Fields the entity does not carry are left out of the row.
func entityRow(entity Entity, columns []string) *Row {
	values := make(map[string]any, len(entity.Properties))
	for name, value := range entity.Fields() {
		values[name] = Unwrap(value)
	}

	row := orderedmap.New[string, any]()
	for _, name := range columns {
		if v, ok := values[name]; ok {
			row.Set(name, v)
		}
	}
	return row
}

// isoformat formats t the way Python's datetime.isoformat does.
func isoformat(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

func jsonValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case time.Time:
		return isoformat(t), nil
	default:
		return nil, fmt.Errorf("%#v is not JSON serializable", v)
	}
}

func serializeResult(result queryResult) (string, error) {
	rows := make([]*Row, len(result.Rows))
	for i, row := range result.Rows {
		out := orderedmap.New[string, any]()
		for pair := row.Oldest(); pair != nil; pair = pair.Next() {
			v, err := jsonValue(pair.Value)
			if err != nil {
				return "", err
			}
			out.Set(pair.Key, v)
		}
		rows[i] = out
	}

	data, err := json.Marshal(queryResult{Columns: result.Columns, Rows: rows})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
