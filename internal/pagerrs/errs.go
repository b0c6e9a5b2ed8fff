package pagerrs

import "errors"

var (
	ErrLoadFailed      = errors.New("load failed")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPage     = errors.New("invalid page")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrEmptyAccount    = errors.New("empty account")
	ErrBusy            = errors.New("navigation in progress")
)
