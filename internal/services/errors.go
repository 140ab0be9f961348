package services

import "errors"

// ErrUnauthorized is returned when the access-control service rejects
// the caller of an administrative operation.
var ErrUnauthorized = errors.New("caller is not authorized")
