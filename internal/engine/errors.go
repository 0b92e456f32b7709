package engine

import (
	"errors"
	"fmt"
)

// Degenerate numeric input; computation refuses to emit NaN or Inf.
var (
	ErrNonPositiveUnderlying = errors.New("underlying price must be positive")
	ErrNonPositiveVolatility = errors.New("volatility must be positive")
	ErrNonPositiveStrike     = errors.New("strike must be positive")
	ErrEmptySeries           = errors.New("empty price series")
	ErrInsufficientRows      = errors.New("metrics table needs at least two rows")
	ErrZeroVariance          = errors.New("zero-variance return series")
	ErrDegenerateReturns     = errors.New("return series crosses a zero pnl value")
	ErrNoDownsideReturns     = errors.New("not enough losing days to compute sortino")
)

var (
	ErrUnknownStrategy   = errors.New("strategy not registered")
	ErrDuplicateStrategy = errors.New("strategy already registered")
)

// ValidationError reports a strategy or order parameter outside configured
// bounds. It is always raised before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
