package repos

import "errors"

// ErrNotFound distinguishes total data unavailability ("no such template or
// assessment") from legitimately computed empty or zero results.
var ErrNotFound = errors.New("record not found")
