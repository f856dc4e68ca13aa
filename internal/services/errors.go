package services

import "errors"

// ErrInvalidInput marks caller-supplied data the service refused before it
// reached the database. Handlers translate it to a 400.
var ErrInvalidInput = errors.New("invalid input")
