package model

import "errors"

var (
	ErrInvalidURL          = errors.New("no youtube video id in url")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrEmptyTimestamp     = errors.New("empty timestamp")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)
