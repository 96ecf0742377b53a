package repositories

import "errors"

// Sentinel errors handlers translate into HTTP statuses.
var (
	ErrNotFound = errors.New("record not found")
	ErrNotOwner = errors.New("requester does not own this record")
)
