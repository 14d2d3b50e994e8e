package location

import "errors"

var (
	ErrSampleNotFound = errors.New("no location sample recorded")
)
