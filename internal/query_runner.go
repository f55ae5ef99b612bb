package internal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// User identifies who issued a query. Runners receive it but are free to ignore it.
type User struct {
	Name  string
	Email string
}

// QueryRunner is the contract between the host and a data source.
type QueryRunner interface {
	Type() string
	Name() string
	Enabled() bool
	AnnotateQuery() bool
	NoopQuery() string

	// RunQuery executes query and returns the serialized {columns, rows}
	// payload. Exactly one of the payload and the error is set.
	RunQuery(ctx context.Context, query string, user *User) (string, error)

	TestConnection(ctx context.Context) error
}

// SchemaProperty describes one configuration field.
type SchemaProperty struct {
	Type string `json:"type"`
}

// ConfigurationSchema is rendered by the host to build the data source form.
type ConfigurationSchema struct {
	Type       string                                         `json:"type"`
	Properties *orderedmap.OrderedMap[string, SchemaProperty] `json:"properties"`
	Required   []string                                       `json:"required"`
	Secret     []string                                       `json:"secret"`
}

// RunnerFactory builds a runner from the host's generic configuration map.
type RunnerFactory func(configuration map[string]any) (QueryRunner, error)

type registration struct {
	factory RunnerFactory
	schema  ConfigurationSchema
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registration{}
)

// Register makes a runner type available to NewRunner. It is called from init.
func Register(runnerType string, schema ConfigurationSchema, factory RunnerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[runnerType] = registration{factory: factory, schema: schema}
}

// NewRunner builds a registered runner.
func NewRunner(runnerType string, configuration map[string]any) (QueryRunner, error) {
	registryMu.RLock()
	reg, ok := registry[runnerType]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("query runner %q is not registered", runnerType)
	}
	return reg.factory(configuration)
}

// Schema returns the configuration schema of a registered runner.
func Schema(runnerType string) (ConfigurationSchema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[runnerType]
	return reg.schema, ok
}

// RunnerTypes lists registered runner types in sorted order.
func RunnerTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
