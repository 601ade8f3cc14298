package domain

import "errors"

var (
	ErrEmptyPath           = errors.New("empty path")
	ErrInvalidPath         = errors.New("path contains null byte")
	ErrMalformedDimensions = errors.New("malformed dimensions")
	ErrTranscodeFailed     = errors.New("transcode failed")
	ErrHistoryDisabled     = errors.New("conversion history is disabled")
)
