package errhandler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hance08/keabank/internal/apperr"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] Account x not found", Message(apperr.NotFound("account %s not found", "x")))

	wrapped := fmt.Errorf("transfer: %w", apperr.Forbidden("not yours"))
	assert.Equal(t, "[FORBIDDEN] Not yours", Message(wrapped))

	internal := apperr.Internal(errors.New("UNIQUE constraint failed: users.email"))
	assert.Equal(t, "[INTERNAL] Internal error", Message(internal))

	funds := apperr.InsufficientFunds("a1", decimal.RequireFromString("5"), decimal.RequireFromString("10"))
	assert.Contains(t, Message(funds), "[INSUFFICIENT_FUNDS] Insufficient funds")

	assert.Equal(t, "Unknown flag: --foo", Message(errors.New("unknown flag: --foo")))
}

func TestHandleError(t *testing.T) {
	assert.Equal(t, 0, HandleError(nil))
	assert.Equal(t, 0, HandleError(huh.ErrUserAborted))
	assert.Equal(t, 1, HandleError(apperr.Busy(errors.New("database is locked"))))
}
