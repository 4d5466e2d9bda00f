// Package routererr defines the error taxonomy shared across the router.
//
// Input and configuration problems are returned as ordinary errors wrapping
// one of the sentinels below, checkable with errors.Is. Reachability and
// no-solution outcomes are not errors at all — callers see a nil result or
// an Unreachable sentinel value instead. Internal invariant violations
// panic with a Bug, since they
// indicate a programming error rather than a user-correctable condition.
package routererr

import "fmt"

// Sentinel kinds. Wrap with fmt.Errorf("...: %w", ErrInput) and unwrap with
// errors.Is.
var (
	// ErrInput marks malformed or inconsistent input data: bad OSM/GTFS
	// contracts, unparseable geometry, out-of-order stop times.
	ErrInput = fmt.Errorf("input error")

	// ErrConfig marks invalid configuration: negative durations,
	// non-positive hex resolution, an empty GTFS feed set.
	ErrConfig = fmt.Errorf("configuration error")
)

// Bug is panicked when an internal invariant is violated — an out-of-range
// index, a dangling cross-reference, a RAPTOR state inconsistency. These are
// never expected in correct code and are not meant to be recovered from in
// normal operation.
type Bug struct {
	Msg string
}

func (b Bug) Error() string {
	return "internal invariant violated: " + b.Msg
}

// Bugf panics with a Bug built from a formatted message.
func Bugf(format string, args ...any) {
	panic(Bug{Msg: fmt.Sprintf(format, args...)})
}
