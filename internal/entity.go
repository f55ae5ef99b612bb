package internal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
)

// EdmType is the storage type tag carried by typed properties.
type EdmType string

const (
	EdmBinary   EdmType = "Edm.Binary"
	EdmBoolean  EdmType = "Edm.Boolean"
	EdmDateTime EdmType = "Edm.DateTime"
	EdmDouble   EdmType = "Edm.Double"
	EdmGUID     EdmType = "Edm.Guid"
	EdmInt32    EdmType = "Edm.Int32"
	EdmInt64    EdmType = "Edm.Int64"
	EdmString   EdmType = "Edm.String"
)

const etagField = "etag"

const (
	odataPrefix     = "odata."
	odataTypeSuffix = "@odata.type"
	odataEtag       = "odata.etag"
	timestampField  = "Timestamp"
)

// Value is either Raw or Typed.
type Value interface {
	unwrap() any
}

// Raw is a property stored as a bare primitive.
type Raw struct {
	Data any
}

// Typed is a property that carries its storage type next to the value.
type Typed struct {
	Type EdmType
	Data any
}

func (v Raw) unwrap() any   { return v.Data }
func (v Typed) unwrap() any { return v.Data }

// Unwrap returns the primitive held by v.
func Unwrap(v Value) any {
	if v == nil {
		return nil
	}
	return v.unwrap()
}

// Property is one named field of an entity.
type Property struct {
	Name  string
	Value Value
}

// Entity is a table storage record. Properties keep the order the service sent them in.
type Entity struct {
	Properties []Property
}

// Fields yields every property except the etag, in order.
func (e Entity) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, p := range e.Properties {
			if p.Name == etagField {
				continue
			}
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// decodeEntity turns an OData JSON entity into an Entity.
func decodeEntity(data []byte) (Entity, error) {
	annotations := map[string]EdmType{}

	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		k := string(key)
		if strings.HasSuffix(k, odataTypeSuffix) {
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return err
			}
			annotations[strings.TrimSuffix(k, odataTypeSuffix)] = EdmType(s)
		}
		return nil
	})
	if err != nil {
		return Entity{}, fmt.Errorf("decode entity: %w", err)
	}

	entity := Entity{}
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		k := string(key)

		switch {
		case k == odataEtag:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return err
			}
			entity.Properties = append(entity.Properties, Property{Name: etagField, Value: Raw{s}})
			return nil
		case strings.HasPrefix(k, odataPrefix), strings.HasSuffix(k, odataTypeSuffix):
			return nil
		}

		edmType, ok := annotations[k]
		if !ok && k == timestampField {
			edmType = EdmDateTime
		}

		v, err := decodeValue(edmType, value, dataType)
		if err != nil {
			return fmt.Errorf("property %s: %w", k, err)
		}
		entity.Properties = append(entity.Properties, Property{Name: k, Value: v})
		return nil
	})
	if err != nil {
		return Entity{}, fmt.Errorf("decode entity: %w", err)
	}

	return entity, nil
}

func decodeValue(edmType EdmType, value []byte, dataType jsonparser.ValueType) (Value, error) {
	if dataType == jsonparser.Null {
		return Raw{nil}, nil
	}

	switch edmType {
	case "":
		return decodeUntyped(value, dataType)
	case EdmString:
		s, err := jsonparser.ParseString(value)
		return Raw{s}, err
	case EdmBoolean:
		b, err := jsonparser.ParseBoolean(value)
		return Raw{b}, err
	case EdmInt32:
		i, err := jsonparser.ParseInt(value)
		return Raw{i}, err
	case EdmInt64:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return Typed{EdmInt64, i}, nil
	case EdmDouble:
		f, err := parseDouble(value, dataType)
		return Raw{f}, err
	case EdmDateTime:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return Raw{t.UTC()}, nil
	case EdmGUID:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		return Typed{EdmGUID, u}, nil
	case EdmBinary:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		return Typed{EdmBinary, b}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", edmType)
	}
}

func decodeUntyped(value []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		return Raw{s}, err
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		return Raw{b}, err
	case jsonparser.Number:
		if i, err := strconv.ParseInt(string(value), 10, 64); err == nil {
			return Raw{i}, nil
		}
		f, err := jsonparser.ParseFloat(value)
		return Raw{f}, err
	default:
		return nil, errors.New("unsupported JSON value")
	}
}

func parseDouble(value []byte, dataType jsonparser.ValueType) (float64, error) {
	if dataType != jsonparser.String {
		return jsonparser.ParseFloat(value)
	}

	s, err := jsonparser.ParseString(value)
	if err != nil {
		return 0, err
	}
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}
