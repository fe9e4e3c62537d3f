package service

import (
	"errors"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/store"
)

// storeError converts a store failure into the error taxonomy. Errors that
// already carry a code pass through; the message is used for NOT_FOUND.
func storeError(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case apperr.Coded(err):
		return err
	case errors.Is(err, store.ErrRecordNotFound):
		if format == "" {
			return apperr.NotFound("record not found")
		}
		return apperr.NotFound(format, args...)
	case errors.Is(err, store.ErrBusy):
		return apperr.Busy(err)
	default:
		return apperr.Internal(err)
	}
}
