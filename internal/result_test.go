package internal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsoformat(t *testing.T) {
	assert.Equal(t, "2020-01-02T03:04:05+00:00", isoformat(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2020-01-02T03:04:05.000100+00:00", isoformat(time.Date(2020, 1, 2, 3, 4, 5, 100000, time.UTC)))
	assert.Equal(t, "2020-01-02T03:04:05+00:00", isoformat(time.Date(2020, 1, 2, 3, 4, 5, 999, time.UTC)))

	est := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, "2020-01-02T03:04:05-05:00", isoformat(time.Date(2020, 1, 2, 3, 4, 5, 0, est)))
}

func TestEntityRowByName(t *testing.T) {
	entity := mustDecode(t, `{"odata.etag":"W/1","b":2,"a":1}`)

	row := entityRow(entity, []string{"a", "b", "c"})
	keys := []string{}
	for pair := row.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"a", "b"}, keys)

	v, ok := row.Get("b")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestSerializeResultNonFinite(t *testing.T) {
	entity := Entity{Properties: []Property{{Name: "x", Value: Raw{Data: math.NaN()}}}}
	result := queryResult{
		Columns: []Column{{Name: "x", Type: TypeFloat}},
		Rows:    []*Row{entityRow(entity, []string{"x"})},
	}

	_, err := serializeResult(result)
	require.Error(t, err)
}

func TestSerializeResultBinary(t *testing.T) {
	entity := Entity{Properties: []Property{{Name: "x", Value: Typed{Type: EdmBinary, Data: []byte("a")}}}}
	result := queryResult{
		Columns: []Column{{Name: "x", Type: TypeUnknown}},
		Rows:    []*Row{entityRow(entity, []string{"x"})},
	}

	_, err := serializeResult(result)
	assert.EqualError(t, err, `[]byte{0x61} is not JSON serializable`)
}
