package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestColumnType(t *testing.T) {
	assert.Equal(t, TypeString, columnType("a"))
	assert.Equal(t, TypeInteger, columnType(1))
	assert.Equal(t, TypeInteger, columnType(int64(1)))
	assert.Equal(t, TypeInteger, columnType(int32(1)))
	assert.Equal(t, TypeFloat, columnType(1.5))
	assert.Equal(t, TypeFloat, columnType(float32(1.5)))
	assert.Equal(t, TypeBoolean, columnType(true))
	assert.Equal(t, TypeDatetime, columnType(time.Now()))
	assert.Equal(t, TypeUnknown, columnType(nil))
	assert.Equal(t, TypeUnknown, columnType(uuid.New()))
	assert.Equal(t, TypeUnknown, columnType([]byte("a")))
}

func TestColumnTypeJSON(t *testing.T) {
	data, err := json.Marshal([]Column{{Name: "a", Type: TypeInteger}, {Name: "b", Type: TypeUnknown}})
	assert.NoError(t, err)
	assert.Equal(t, `[{"name":"a","type":"integer"},{"name":"b","type":null}]`, string(data))
}

func TestColumnSet(t *testing.T) {
	s := newColumnSet()
	s.add(mustDecode(t, `{"odata.etag":"W/1","id":1,"name":"a"}`))
	s.add(mustDecode(t, `{"odata.etag":"W/2","name":5,"id":"2","extra":true}`))

	assert.Equal(t, []Column{
		{Name: "id", Type: TypeInteger},
		{Name: "name", Type: TypeString},
		{Name: "extra", Type: TypeBoolean},
	}, s.columns)
	assert.Equal(t, []string{"id", "name", "extra"}, s.names())
}

func TestColumnSetUnwrapsTypedValues(t *testing.T) {
	s := newColumnSet()
	s.add(Entity{Properties: []Property{
		{Name: "big", Value: Typed{Type: EdmInt64, Data: int64(1)}},
		{Name: "ref", Value: Typed{Type: EdmGUID, Data: uuid.New()}},
	}})

	assert.Equal(t, []Column{{Name: "big", Type: TypeInteger}, {Name: "ref", Type: TypeUnknown}}, s.columns)
}
