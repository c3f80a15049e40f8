package repository

import "errors"

// ErrNotFound is returned when a row does not exist, is tombstoned, or is not
// owned by the requesting user. Callers cannot distinguish the three cases.
var ErrNotFound = errors.New("not found")
