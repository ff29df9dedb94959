package spacedrep

import "errors"

// ErrInvalidQuality is returned when a quality rating falls outside [0, 5].
// It is a permanent input error; retrying with the same input fails again.
var ErrInvalidQuality = errors.New("spacedrep: quality must be between 0 and 5")
