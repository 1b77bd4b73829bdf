package gateway

// Outcome is the result of one upstream call.
//
// OK is false when the upstream was unreachable, answered with a non-2xx status
// or sent a body that could not be decoded; Err then holds the cause (an
// *UpstreamError). Value is always usable: it is the zero value, or an empty
// slice for list calls, when OK is false.
type Outcome[T any] struct {
	Value T
	OK    bool
	Err   error
}

func succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, OK: true}
}

func failed[T any](fallback T, err error) Outcome[T] {
	return Outcome[T]{Value: fallback, Err: err}
}

// Get returns the value and whether the call succeeded.
func (o Outcome[T]) Get() (T, bool) {
	return o.Value, o.OK
}

// OrEmpty returns the value, which is the empty fallback on failure.
// The distinction between "no data" and "upstream down" is dropped here.
func (o Outcome[T]) OrEmpty() T {
	return o.Value
}
