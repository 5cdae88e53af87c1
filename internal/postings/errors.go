package postings

import "errors"

var (
	// ErrNotFound indicates the vaga does not exist.
	ErrNotFound = errors.New("vaga not found")
	// ErrSlugTaken indicates another vaga already uses the slug.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
)
