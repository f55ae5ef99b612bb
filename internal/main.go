package internal

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type queryOutcome struct {
	data string
	err  error
}

// Main runs each query as its own invocation of runner, at most processes at
// a time, and hands the results to formatter in argument order. It returns the
// number of failed queries.
func Main(ctx context.Context, runner QueryRunner, queries []string, processes int, formatter Formatter) (int, error) {
	if processes < 1 {
		processes = 1
	}

	slog.Debug("running queries", "runner", runner.Type(), "count", len(queries), "processes", processes)

	outcomes := make([]queryOutcome, len(queries))

	var g errgroup.Group
	g.SetLimit(processes)
	for i, query := range queries {
		g.Go(func() error {
			data, err := runner.RunQuery(ctx, query, nil)
			outcomes[i] = queryOutcome{data: data, err: err}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failed++
		}
		if err := formatter.AddResult(queries[i], outcome.data, outcome.err); err != nil {
			return failed, err
		}
	}

	return failed, formatter.Flush()
}
