package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/velostat/velostat/schema"
)

// Sentinel errors for split planning.
var (
	// ErrBadProportion is returned for training proportions outside (0,1).
	ErrBadProportion = errors.New("training proportion must be in (0, 1)")

	// ErrEmptyPartition is returned when a proportion yields a zero-length
	// train or test partition.
	ErrEmptyPartition = errors.New("split yields an empty partition")
)

// SplitHires partitions a chronologically sorted series into a training
// prefix of length round(p*N) and a test suffix, preserving the original
// order. There is no shuffling: a chronological split is a correctness
// requirement, since sampling test rows into training would leak future
// information.
func SplitHires(rows []schema.DailyHireRecord, p float64) (train, test []schema.DailyHireRecord, err error) {
	if !(p > 0 && p < 1) {
		return nil, nil, fmt.Errorf("%w (got %g)", ErrBadProportion, p)
	}
	if err := checkSorted(rows); err != nil {
		return nil, nil, err
	}

	n := len(rows)
	cut := int(math.Round(p * float64(n)))
	if cut == 0 || cut == n {
		return nil, nil, fmt.Errorf("%w: train=%d test=%d for n=%d p=%g",
			ErrEmptyPartition, cut, n-cut, n, p)
	}
	return rows[:cut], rows[cut:], nil
}
