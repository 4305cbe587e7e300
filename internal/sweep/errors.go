package sweep

import "errors"

var (
	ErrModelNotFound = errors.New("model not found")
	ErrInvalidGrid   = errors.New("invalid sweep grid")
	ErrTimeout       = errors.New("sweep timed out")
)
