package internal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const TableStorageType = "table_storage"

func init() {
	Register(TableStorageType, TableStorageSchema(), func(configuration map[string]any) (QueryRunner, error) {
		r, err := NewTableStorage(configuration)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

// TableStorageSchema describes the configuration accepted by TableStorage.
func TableStorageSchema() ConfigurationSchema {
	properties := orderedmap.New[string, SchemaProperty]()
	properties.Set("account_name", SchemaProperty{Type: "string"})
	properties.Set("account_key", SchemaProperty{Type: "string"})
	properties.Set("table_name", SchemaProperty{Type: "string"})

	return ConfigurationSchema{
		Type:       "object",
		Properties: properties,
		Required:   []string{"account_name", "account_key"},
		Secret:     []string{"account_key"},
	}
}

// TableStorage runs OData filter queries against one Azure Storage table.
type TableStorage struct {
	configuration TableStorageConfiguration
	newClient     clientFactory
	logger        *slog.Logger
}

type TableStorageOption func(*TableStorage)

// WithEndpoint points the runner at a different table service URL, such as Azurite.
func WithEndpoint(endpoint string) TableStorageOption {
	return func(r *TableStorage) {
		r.newClient = newAzureClientFactory(endpoint)
	}
}

func WithLogger(logger *slog.Logger) TableStorageOption {
	return func(r *TableStorage) {
		r.logger = logger
	}
}

func withClientFactory(factory clientFactory) TableStorageOption {
	return func(r *TableStorage) {
		r.newClient = factory
	}
}

func NewTableStorage(configuration map[string]any, opts ...TableStorageOption) (*TableStorage, error) {
	c, err := parseTableStorageConfiguration(configuration)
	if err != nil {
		return nil, err
	}

	r := &TableStorage{
		configuration: c,
		newClient:     newAzureClientFactory(""),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *TableStorage) Type() string {
	return TableStorageType
}

func (r *TableStorage) Name() string {
	return "Azure Table Storage"
}

func (r *TableStorage) Enabled() bool {
	return true
}

func (r *TableStorage) AnnotateQuery() bool {
	return false
}

func (r *TableStorage) NoopQuery() string {
	return ""
}

func (r *TableStorage) Configuration() TableStorageConfiguration {
	return r.configuration
}

// RunQuery fetches every entity matching the filter query and returns them as
// a JSON {columns, rows} document. The user is not used.
func (r *TableStorage) RunQuery(ctx context.Context, query string, user *User) (string, error) {
	data, err := r.runQuery(ctx, query)
	if err != nil {
		r.logFailure(ctx, err)
		return "", err
	}
	return data, nil
}

func (r *TableStorage) runQuery(ctx context.Context, query string) (string, error) {
	client, err := r.newClient(r.configuration.AccountName, r.configuration.AccountKey)
	if err != nil {
		return "", &OperationError{Kind: KindClient, Err: err}
	}

	columns := newColumnSet()
	entities := []Entity{}
	for entity, err := range client.QueryEntities(ctx, r.configuration.TableName, query) {
		if err != nil {
			return "", &OperationError{Kind: KindQuery, Err: err}
		}
		columns.add(entity)
		entities = append(entities, entity)
	}

	names := columns.names()
	rows := make([]*Row, len(entities))
	for i, entity := range entities {
		rows[i] = entityRow(entity, names)
	}

	data, err := serializeResult(queryResult{Columns: columns.columns, Rows: rows})
	if err != nil {
		return "", &OperationError{Kind: KindSerialization, Err: err}
	}
	return data, nil
}

func (r *TableStorage) logFailure(ctx context.Context, err error) {
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("table", r.configuration.TableName),
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		attrs = append(attrs, slog.String("kind", opErr.Kind.String()))
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		attrs = append(attrs, slog.String("error_code", respErr.ErrorCode), slog.Int("status", respErr.StatusCode))
	}

	r.logger.ErrorContext(ctx, "table storage query failed", attrs...)
}

func (r *TableStorage) TestConnection(ctx context.Context) error {
	_, err := r.RunQuery(ctx, r.NoopQuery(), nil)
	return err
}
