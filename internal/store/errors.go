package store

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrConstraintViolation = errors.New("database constraint violation")
	// ErrBusy is returned when a lock could not be acquired within the
	// configured lock timeout, or the database aborted the unit of work to
	// break a deadlock. The whole unit of work has been rolled back.
	ErrBusy = errors.New("database busy: lock wait timed out")
)
