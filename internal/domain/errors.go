package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrEmptySelection is returned when a sample is requested from a set
	// with no members.
	ErrEmptySelection = errors.New("empty selection")
)
