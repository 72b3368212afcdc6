package metrics

import "errors"

var (
	// ErrEmpty indicates a statistic was requested over no values.
	ErrEmpty = errors.New("metrics: no values")

	// ErrZeroReference indicates a relative error against a zero reference; the result is undefined.
	ErrZeroReference = errors.New("metrics: relative error undefined for zero reference")

	// ErrTooFewPoints indicates a regression with fewer than two distinct points.
	ErrTooFewPoints = errors.New("metrics: need at least two distinct points")

	// ErrNonPositive indicates a value that cannot be log-transformed.
	ErrNonPositive = errors.New("metrics: log-log fit needs positive values")

	// ErrLengthMismatch indicates paired slices of different lengths.
	ErrLengthMismatch = errors.New("metrics: length mismatch")
)
