package service

import "errors"

var (
	// ErrNotImplemented is returned by operations reserved for future
	// full-text search support.
	ErrNotImplemented = errors.New("not implemented")
)
