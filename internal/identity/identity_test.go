package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/apperr"
)

func TestStatic(t *testing.T) {
	const flagID = "0190b6a4-7c1e-7c3a-9a4f-1c2d3e4f5a6b"
	const cfgID = "0190b6a4-7c1e-7c3a-9a4f-1c2d3e4f5a6c"

	id, err := New(flagID, cfgID).CurrentIdentity(t.Context())
	require.NoError(t, err)
	assert.Equal(t, flagID, id, "flag wins")

	id, err = New("  ", cfgID).CurrentIdentity(t.Context())
	require.NoError(t, err)
	assert.Equal(t, cfgID, id)

	_, err = New("", "").CurrentIdentity(t.Context())
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = New("bob", "").CurrentIdentity(t.Context())
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
