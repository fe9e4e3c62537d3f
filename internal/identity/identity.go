// Package identity resolves the user a CLI invocation acts as.
package identity

import (
	"context"
	"strings"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/validation"
)

// Static returns the id picked at startup from the --as flag, the
// identity.user_id config key or KEABANK_IDENTITY_USER_ID, in that order
// of precedence (viper resolves the last two).
type Static struct {
	userID string
}

func New(flagValue, configured string) *Static {
	id := strings.TrimSpace(flagValue)
	if id == "" {
		id = strings.TrimSpace(configured)
	}
	return &Static{userID: id}
}

func (s *Static) CurrentIdentity(context.Context) (string, error) {
	if s.userID == "" {
		return "", apperr.Validation("no user selected: pass --as <user-id> or set identity.user_id")
	}
	if err := validation.ValidateID("user", s.userID); err != nil {
		return "", err
	}
	return s.userID, nil
}
