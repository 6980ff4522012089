package knowledge

import "fmt"

// ObservationError rejects an Observe call before any state change; the
// knowledge base is left exactly as it was.
type ObservationError struct {
	message string
}

// [ObservationError] implements [error]
func (e ObservationError) Error() string {
	return e.message
}

func observationf(format string, args ...any) ObservationError {
	return ObservationError{message: fmt.Sprintf(format, args...)}
}

// InvariantError is an internally detected contradiction: some constraint
// would need a negative hazard count, or more hazards than it has cells.
// The observation sequence is inconsistent and every deduction made from it
// is untrustworthy, so the error is surfaced instead of being absorbed.
type InvariantError struct {
	message string
}

// [InvariantError] implements [error]
func (e InvariantError) Error() string {
	return e.message
}

func invariantf(format string, args ...any) InvariantError {
	return InvariantError{message: fmt.Sprintf(format, args...)}
}
