package backfill

import (
	"context"
	"strconv"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"k8s.io/utils/clock"

	"github.com/luno/intervals/interval"
)

// SetFactory builds the IntervalSet a Runner should evaluate on the next
// iteration, including whatever present ranges the caller's own storage
// already knows about. Called once per RunOnce, so the returned set's End
// can track wall-clock time forward across iterations.
type SetFactory func(ctx context.Context) (*interval.IntervalSet, error)

// Materialize runs the data transformation job for a batch of missing
// intervals. A Runner only cares whether it succeeds; it never interprets
// the result beyond that.
type Materialize func(ctx context.Context, missing []interval.Interval) error

// Runner drives a SetFactory/Materialize pair to readiness, persisting its
// progress through a Cursor. Grounded on process/schedule.go's
// scheduleRunner, generalized from one cron fire time to a batch of
// missing intervals per iteration.
type Runner struct {
	name        string
	newSet      SetFactory
	materialize Materialize
	cursor      Cursor
	o           options

	errCount uint
}

// NewRunner constructs a Runner. name identifies it in metrics, logs, and
// as the Cursor key.
func NewRunner(name string, newSet SetFactory, materialize Materialize, cursor Cursor, opts ...Option) *Runner {
	o := resolveOptions(defaultOptions(name), opts)
	return &Runner{name: name, newSet: newSet, materialize: materialize, cursor: cursor, o: o}
}

// LastWatermark returns the end of the most recently materialized
// interval, or the zero time if nothing has been materialized yet.
func (r *Runner) LastWatermark(ctx context.Context) (time.Time, error) {
	val, err := r.cursor.Get(ctx, r.name)
	if err != nil {
		return time.Time{}, err
	}
	if val == "" {
		return time.Time{}, nil
	}
	unixSec, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unixSec, 0).UTC(), nil
}

// RunOnce computes the current missing set and, if non-empty, materializes
// it, marks the result present on the in-iteration IntervalSet, and
// advances the cursor to the latest materialized interval's end. Mirrors
// scheduleRunner.doNext's fetch-compute-execute-persist shape.
func (r *Runner) RunOnce(ctx context.Context) error {
	set, err := r.newSet(ctx)
	if err != nil {
		return err
	}

	now := r.o.clock.Now().UTC()
	opts := interval.MissingOptions{CurrentTime: &now, Lookback: r.o.lookback}
	if r.o.cutoff != nil {
		cutoff := now.Add(-*r.o.cutoff)
		opts.CutoffTime = &cutoff
	}

	missing, err := set.Missing(opts)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	ctx = log.ContextWith(ctx, j.MKV{
		"backfill_runner": r.name,
		"backfill_count":  len(missing),
	})

	if err := r.materialize(ctx, missing); err != nil {
		return err
	}

	ranges := make([]interval.PrimitiveInterval, len(missing))
	for i, m := range missing {
		ranges[i] = m.ToPrimitive()
	}
	if err := set.MarkPresentRanges(ranges); err != nil {
		return err
	}

	runnerMaterialized.WithLabelValues(r.name).Add(float64(len(missing)))

	watermark := missing[len(missing)-1].End
	return r.cursor.Set(ctx, r.name, strconv.FormatInt(watermark.Unix(), 10))
}

// Loop calls RunOnce repeatedly, sleeping opts.sleep() after a successful
// iteration (whether or not anything was missing) or opts.errorSleep()
// after a failed one, until ctx is done or maxErrors consecutive failures
// have accumulated. Mirrors process/schedule.go's processLoop/processOnce.
func (r *Runner) Loop(ctx context.Context) error {
	for ctx.Err() == nil {
		err := r.RunOnce(ctx)
		sleep := r.o.sleep()
		if err != nil && !errors.Is(err, context.Canceled) {
			r.errCount++
			sleep = r.o.errorSleep(r.errCount, err)
			r.o.errCounter.Inc()
			log.Error(ctx, err)
			if r.o.maxErrors > 0 && r.errCount >= r.o.maxErrors {
				return err
			}
		} else {
			r.errCount = 0
		}

		if waitErr := waitFor(ctx, r.o.clock, sleep); waitErr != nil {
			return waitErr
		}
	}
	return context.Cause(ctx)
}

// waitFor is a cancellable sleep: it returns when d has elapsed or ctx is
// cancelled, whichever comes first. Ported from app.go's Wait.
func waitFor(ctx context.Context, cl clock.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	ti := cl.NewTimer(d)
	defer ti.Stop()
	select {
	case <-ti.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
