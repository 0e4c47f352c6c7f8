package services

import "errors"

// Dataset service errors
var (
	// ErrDatasetNotLoaded is returned by query methods before Load has
	// completed successfully
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrInvalidFilter is returned when a filter carries an unusable value
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidLimit is returned when a ranking limit is out of range
	ErrInvalidLimit = errors.New("limit out of range")
)
