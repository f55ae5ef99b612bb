package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ankane/tablestorage/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configKeys = []string{"account_name", "account_key", "table_name"}

func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "tablestorage [filter-query...]",
		Short:         "Run filter queries against Azure Table Storage",
		Long:          "Run OData filter queries against an Azure Storage table and print the {columns, rows} result. With no filter, every entity is returned.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}

			processes := v.GetInt("processes")
			if processes < 1 {
				return errors.New("Processes must be positive")
			}

			format := v.GetString("format")
			newFormatter, found := internal.Formatters[format]
			if !found {
				return fmt.Errorf("formatter %q is not supported", format)
			}

			var (
				fileAdapter internal.FileAdapter
				err         error
			)
			if output := v.GetString("output"); output != "" {
				fileAdapter, err = internal.NewFileAdapter(output)
				if err != nil {
					return err
				}
			}

			logger, closeLogger := internal.SetupLogger(cmd.ErrOrStderr(), v.GetString("log_level"), v.GetString("seq_url"))
			defer closeLogger()
			slog.SetDefault(logger)

			configuration := map[string]any{}
			for _, key := range configKeys {
				configuration[key] = v.GetString(key)
			}

			runner, err := internal.NewTableStorage(
				configuration,
				internal.WithEndpoint(v.GetString("endpoint")),
				internal.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			logger.Debug("runner configured", "configuration", runner.Configuration())

			queries := args
			if len(queries) == 0 {
				queries = []string{runner.NoopQuery()}
			}

			var out io.Writer = cmd.OutOrStdout()
			var buf bytes.Buffer
			if fileAdapter != nil {
				out = &buf
			}

			failed, err := internal.Main(cmd.Context(), runner, queries, processes, newFormatter(out))
			if err != nil {
				return err
			}

			if fileAdapter != nil {
				if err := fileAdapter.Write(cmd.Context(), buf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote results to %s\n", v.GetString("output"))
			}

			if failed > 0 {
				return fmt.Errorf("%s failed", pluralizeQueries(failed))
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("account-name", "", "Storage account name")
	cmd.PersistentFlags().String("account-key", "", "Storage account key")
	cmd.PersistentFlags().String("table-name", "", "Table name")
	cmd.PersistentFlags().String("endpoint", "", "Table service URL (defaults to https://<account>.table.core.windows.net/)")
	cmd.PersistentFlags().String("config", "", "Config file")
	cmd.PersistentFlags().String("format", "text", "Export format")
	cmd.PersistentFlags().String("output", "", "Write results to file://path or s3://bucket/key")
	cmd.PersistentFlags().Int("processes", 1, "Processes")
	cmd.PersistentFlags().String("log-level", "info", "Log level")
	cmd.PersistentFlags().String("seq-url", "", "Seq server for logs")

	for _, name := range []string{"account-name", "account-key", "table-name", "endpoint", "format", "output", "processes", "log-level", "seq-url"} {
		// errors only for unknown flags
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), cmd.PersistentFlags().Lookup(name))
	}
	v.SetEnvPrefix("tablestorage")
	v.AutomaticEnv()

	cmd.AddCommand(newSchemaCmd())

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := internal.Schema(internal.TableStorageType)
			data, err := json.Marshal(schema)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func pluralizeQueries(count int) string {
	if count == 1 {
		return "1 query"
	}
	return fmt.Sprintf("%d queries", count)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
