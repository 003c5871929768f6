package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrDuplicateIndex = errors.New("file index already recorded")
	ErrInvalidIndex   = errors.New("invalid file index")
)
