package parser

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload matches every *ParseError.
var ErrMalformedPayload = errors.New("malformed payload")

// ParseError describes the first structural problem found in a payload.
type ParseError struct {
	// Op is the entry point that failed: "cities", "routes" or "status".
	Op string
	// Path locates the offending element, e.g. "routes[1].legs".
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("parse %s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformedPayload }

var (
	errMissing  = errors.New("missing")
	errNotArray = errors.New("not an array")
	errNotObj   = errors.New("not an object")
	errEmpty    = errors.New("empty array")
)
