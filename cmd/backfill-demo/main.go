// Command backfill-demo wires the interval engine and the backfill runner
// together against an in-memory cursor, logging each materialized batch
// instead of doing real work. It exists to demonstrate the wiring end to
// end; it is not part of the library's public API.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"

	"github.com/luno/intervals/backfill"
	"github.com/luno/intervals/interval"
)

func main() {
	cronExpr := flag.String("cron", "@hourly", "cron expression to derive the data interval grid from")
	lookback := flag.Int("lookback", 1, "number of prior intervals to reprocess when a gap is found")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now().UTC().Add(-24 * time.Hour)
	cursor := backfill.NewMemCursor()

	factory := func(context.Context) (*interval.IntervalSet, error) {
		return interval.NewIntervalSet(*cronExpr, start, time.Now().UTC())
	}

	materialize := func(ctx context.Context, missing []interval.Interval) error {
		for _, m := range missing {
			log.Info(ctx, "materializing interval", j.MKV{
				"interval_start": m.Start,
				"interval_end":   m.End,
			})
		}
		return nil
	}

	runner := backfill.NewRunner("demo", factory, materialize, cursor,
		backfill.WithLookback(*lookback),
		backfill.WithSleep(10*time.Second),
	)

	if err := runner.Loop(ctx); err != nil && ctx.Err() == nil {
		log.Error(ctx, err)
	}
}
