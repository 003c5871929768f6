package aggregate

import (
	"errors"
	"fmt"
)

// Sentinel kinds for aggregation errors.
var (
	ErrHeaderMismatch  = errors.New("event particle lines do not match the declared count")
	ErrMalformedHeader = errors.New("malformed event header")
	ErrRead            = errors.New("read event stream")
	ErrUnknownOption   = errors.New("unknown aggregation option")
)

// ParseError locates a structural problem in the event stream. It is only
// returned under the strict header policy.
type ParseError struct {
	Line int // 1-based line number
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
