package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/apperr"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))

	for _, bad := range []string{"", "alice", "Alice <alice@example.com>", strings.Repeat("a", 250) + "@x.io"} {
		err := ValidateEmail(bad)
		assert.True(t, apperr.Is(err, apperr.CodeValidation), "expected validation error for %q", bad)
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("user", "0190b6a4-7c1e-7c3a-9a4f-1c2d3e4f5a6b"))
	assert.ErrorContains(t, ValidateID("user", ""), "can't be empty")
	assert.ErrorContains(t, ValidateID("account", "not-a-uuid"), "invalid account ID")
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("usd"))
	assert.True(t, apperr.Is(ValidateCurrency("JPY"), apperr.CodeValidation))
}

func TestValidateAmountAndBalance(t *testing.T) {
	assert.NoError(t, ValidateAmount("10.50"))
	assert.Error(t, ValidateAmount("0"))
	assert.Error(t, ValidateAmount("10.005"))

	assert.NoError(t, ValidateBalance("0"))
	assert.Error(t, ValidateBalance("-1"))
}

func TestResolvePage(t *testing.T) {
	page, limit, err := ResolvePage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit, err = ResolvePage(3, 500)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	_, _, err = ResolvePage(-1, 10)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, _, err = ResolvePage(1, -5)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestPageOffset(t *testing.T) {
	offset, err := PageOffset(1, 10)
	require.NoError(t, err)
	assert.Zero(t, offset)

	offset, err = PageOffset(4, 25)
	require.NoError(t, err)
	assert.Equal(t, 75, offset)

	offset, err = PageOffset(math.MaxInt/10+1, 10)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/10*10, offset)

	_, err = PageOffset(math.MaxInt/10+2, 10)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = PageOffset(math.MaxInt, 100)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = PageOffset(0, 10)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
