package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrNilReport = errors.New("nil report")
	ErrWriteXLSX = errors.New("write xlsx report")
)
