package internal

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainRunsQueries(t *testing.T) {
	r, _ := newTestRunner(t, &fakeQuerier{entities: []Entity{mustDecode(t, `{"odata.etag":"W/1","id":1,"name":"a"}`)}})

	var out bytes.Buffer
	failed, err := Main(context.Background(), r, []string{"id eq 1"}, 1, NewJSONFormatter(&out))
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.Equal(t, `[{"query":"id eq 1","data":{"columns":[{"name":"id","type":"integer"},{"name":"name","type":"string"}],"rows":[{"id":1,"name":"a"}]},"error":null}]`+"\n", out.String())
}

func TestMainKeepsQueryOrder(t *testing.T) {
	r := &stubRunner{fail: map[string]bool{"b": true}}

	var out bytes.Buffer
	failed, err := Main(context.Background(), r, []string{"a", "b", "c", "d"}, 3, NewJSONFormatter(&out))
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(4), r.calls.Load())
	assert.Equal(t, `[{"query":"a","data":{"columns":[],"rows":[]},"error":null},{"query":"b","data":null,"error":"b failed"},{"query":"c","data":{"columns":[],"rows":[]},"error":null},{"query":"d","data":{"columns":[],"rows":[]},"error":null}]`+"\n", out.String())
}

func TestMainNonPositiveProcesses(t *testing.T) {
	r := &stubRunner{}

	var out bytes.Buffer
	failed, err := Main(context.Background(), r, []string{"a"}, 0, NewJSONFormatter(&out))
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.Equal(t, int32(1), r.calls.Load())
}

// helpers

type stubRunner struct {
	TableStorage
	fail  map[string]bool
	calls atomic.Int32
}

func (r *stubRunner) Type() string {
	return "stub"
}

func (r *stubRunner) RunQuery(ctx context.Context, query string, user *User) (string, error) {
	r.calls.Add(1)
	if r.fail[query] {
		return "", errors.New(query + " failed")
	}
	return `{"columns":[],"rows":[]}`, nil
}
