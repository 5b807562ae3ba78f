package apperrors

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoTables        = errors.New("no tables available in schema")
)
