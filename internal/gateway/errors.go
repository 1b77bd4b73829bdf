package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable matches any transport failure, non-2xx status or
	// undecodable body from an upstream service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound matches a 404 from an upstream lookup.
	ErrNotFound = errors.New("upstream resource not found")
)

// UpstreamError describes a failed upstream call.
type UpstreamError struct {
	Source string // "sales" or "line_items"
	Path   string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Source, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets errors.Is classify the failure without the caller inspecting Status.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUpstreamUnavailable:
		return e.Status != 404
	}
	return false
}
