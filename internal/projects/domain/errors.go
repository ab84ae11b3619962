package domain

import "errors"

var (
	ErrNotFound        = errors.New("project not found")
	ErrInvalidID       = errors.New("invalid project id")
	ErrInvalidDocument = errors.New("invalid project document")
)
