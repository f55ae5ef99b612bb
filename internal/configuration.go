package internal

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

const secretMask = "--------"

var validate = validator.New(validator.WithRequiredStructEnabled())

// TableStorageConfiguration holds the connection settings of one runner.
type TableStorageConfiguration struct {
	AccountName string `mapstructure:"account_name" validate:"required"`
	AccountKey  string `mapstructure:"account_key" validate:"required"`
	TableName   string `mapstructure:"table_name"`
}

func parseTableStorageConfiguration(configuration map[string]any) (TableStorageConfiguration, error) {
	var c TableStorageConfiguration

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return c, err
	}
	if err := decoder.Decode(configuration); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

// LogValue keeps the account key out of log records.
func (c TableStorageConfiguration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_name", c.AccountName),
		slog.String("account_key", secretMask),
		slog.String("table_name", c.TableName),
	)
}

func (c TableStorageConfiguration) String() string {
	return fmt.Sprintf("account_name=%s account_key=%s table_name=%s", c.AccountName, secretMask, c.TableName)
}

// GoString masks the key for %#v.
func (c TableStorageConfiguration) GoString() string {
	return "TableStorageConfiguration{" + c.String() + "}"
}
