package interval

import (
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// ErrInvalidConstruction is returned when an IntervalSet is constructed with
// end before start, or with a cron expression the collaborator rejects.
var ErrInvalidConstruction = errors.New("invalid interval set construction", j.C("ERR_6f1b6e6a1f9b4c01"))

// ErrInvariantViolation is returned by Missing's lookback walk when it
// generates a prior range that is not covered by any existing data
// interval. It indicates a bug in the cron collaborator or in the
// interval-generation logic, never a caller mistake.
var ErrInvariantViolation = errors.New(
	"generated a range not covered by an expected interval; this is a bug",
	j.C("ERR_6f1b6e6a1f9b4c02"),
)
