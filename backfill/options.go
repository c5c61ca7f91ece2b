package backfill

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"
)

type options struct {
	name string

	sleep      SleepFunc
	errorSleep ErrorSleepFunc
	maxErrors  uint
	clock      clock.Clock

	lookback int
	cutoff   *time.Duration

	errCounter prometheus.Counter
}

// SleepFunc returns how long to sleep between loop iterations that found
// nothing missing or materialized successfully.
type SleepFunc func() time.Duration

// SleepFor returns a SleepFunc that always sleeps for dur.
func SleepFor(dur time.Duration) SleepFunc {
	return func() time.Duration { return dur }
}

// ErrorSleepFunc returns how long to sleep after an iteration fails.
// errCount is the number of consecutive failures, always > 0.
type ErrorSleepFunc func(errCount uint, err error) time.Duration

// ErrorSleepFor returns an ErrorSleepFunc that always sleeps for dur.
func ErrorSleepFor(dur time.Duration) ErrorSleepFunc {
	return func(uint, error) time.Duration { return dur }
}

// MakeErrorSleepFunc retries immediately for the first r errors, then
// sleeps for d scaled by backoff[errCount-r-1], clamped to the last
// element once errCount runs past the end of backoff.
func MakeErrorSleepFunc(r uint, d time.Duration, backoff []uint) ErrorSleepFunc {
	return func(errCount uint, err error) time.Duration {
		if errCount <= r {
			return 0
		}
		if len(backoff) == 0 {
			return d
		}
		idx := int(errCount) - 1 - int(r)
		if idx >= len(backoff) {
			idx = len(backoff) - 1
		}
		return d * time.Duration(backoff[idx])
	}
}

// DefaultBackoff is the multiplier sequence process/options.go ships for
// MakeErrorSleepFunc, reused here unchanged.
var DefaultBackoff = []uint{1, 2, 5, 10, 20, 50, 100}

// Option configures a Runner.
type Option func(*options)

func defaultOptions(name string) options {
	return options{
		name:       name,
		errorSleep: ErrorSleepFor(10 * time.Minute),
	}
}

func resolveOptions(defaults options, opts []Option) options {
	res := defaults
	for _, o := range opts {
		o(&res)
	}
	if res.sleep == nil {
		res.sleep = SleepFor(time.Minute)
	}
	if res.clock == nil {
		res.clock = clock.RealClock{}
	}
	if res.errorSleep == nil {
		res.errorSleep = ErrorSleepFor(10 * time.Minute)
	}
	if res.errCounter == nil {
		res.errCounter = runnerErrors.WithLabelValues(res.name)
	}
	return res
}

// WithSleep is a shortcut for WithSleepFunc(SleepFor(d)).
func WithSleep(d time.Duration) Option {
	return func(o *options) { o.sleep = SleepFor(d) }
}

// WithSleepFunc sets the between-iteration sleep policy.
func WithSleepFunc(f SleepFunc) Option {
	return func(o *options) { o.sleep = f }
}

// WithErrorSleep is a shortcut for WithErrorSleepFunc(ErrorSleepFor(d)).
func WithErrorSleep(d time.Duration) Option {
	return WithErrorSleepFunc(ErrorSleepFor(d))
}

// WithErrorSleepFunc sets the after-failure sleep policy.
func WithErrorSleepFunc(f ErrorSleepFunc) Option {
	return func(o *options) { o.errorSleep = f }
}

// WithClock overrides the clock used to resolve "now" and to sleep
// between iterations. Intended for tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMaxErrors stops Loop after v consecutive failures. 0 (the default)
// never gives up.
func WithMaxErrors(v uint) Option {
	return func(o *options) { o.maxErrors = v }
}

// WithLookback sets the lookback passed to interval.IntervalSet.Missing
// on every RunOnce call.
func WithLookback(n int) Option {
	return func(o *options) { o.lookback = n }
}

// WithCutoff passes clock.Now().Add(-d) as the cutoff time to
// interval.IntervalSet.Missing on every RunOnce call. Missing applies the
// cutoff only when a positive lookback is set (see WithLookback); the
// returned intervals then all end at or before it. With no lookback the
// cutoff has no effect.
func WithCutoff(d time.Duration) Option {
	return func(o *options) { o.cutoff = &d }
}
