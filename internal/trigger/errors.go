package trigger

import "errors"

// ErrNotFound is returned when no project/trigger pair matches both keys.
var ErrNotFound = errors.New("trigger not found")
