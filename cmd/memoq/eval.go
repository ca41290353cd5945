package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seuros/gopher-memo/src/memo"
)

func evalCommand(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	maxSize := fs.Int("maxsize", 128, "cache capacity (0 disables, -1 unbounded)")
	typed := fs.Bool("typed", false, "argument types participate in key equality")
	trace := fs.Bool("trace", false, "emit OpenTelemetry metrics and spans to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	exprs := fs.Args()
	if len(exprs) == 0 {
		return usageErrorf("eval: at least one expression required")
	}

	cfg := memo.Config{MaxSize: *maxSize, Typed: *typed}
	if *trace {
		shutdown, err := setupTelemetry()
		if err != nil {
			return fmt.Errorf("telemetry setup: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				fmt.Fprintf(flag.CommandLine.Output(), "telemetry shutdown: %v\n", err)
			}
		}()
		cfg.Observability = memo.DefaultObservabilityConfig()
	}

	cache, err := memo.New(func(args []any, kwargs map[string]any) (any, error) {
		return evaluate(args[0].(string))
	}, cfg)
	if err != nil {
		return err
	}

	for _, expr := range exprs {
		before := cache.Info()
		v, err := cache.Call(expr)
		if err != nil {
			return err
		}
		source := "computed"
		if cache.Info().Hits > before.Hits {
			source = "cached"
		}
		fmt.Printf("%s = %v  (%s)\n", expr, v, source)
	}

	fmt.Println(cache.Info())
	return nil
}
