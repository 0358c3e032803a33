package repositories

import "errors"

// ErrNotFound is returned (wrapped) by repositories when a record does not
// exist, so callers can distinguish "absent" from infrastructure failure.
var ErrNotFound = errors.New("record not found")
