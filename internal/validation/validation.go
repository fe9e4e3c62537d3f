// Package validation holds input checks shared by the services and the
// interactive prompts. Every check returns a VALIDATION_ERROR.
package validation

import (
	"math"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email can't be empty")
	}
	if len(email) > constants.MaxEmailLen {
		return apperr.Validation("email too long (max %d characters)", constants.MaxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.Validation("invalid email address: %s", email)
	}
	return nil
}

// ValidateID accepts the canonical UUID text form used for every identifier.
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("%s ID can't be empty", kind)
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("invalid %s ID: %s", kind, id)
	}
	return nil
}

func ValidateCurrency(s string) error {
	if _, err := model.ParseCurrency(s); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

// ValidateAmount checks a user-typed amount for transfers and exchanges.
func ValidateAmount(s string) error {
	_, err := money.ParsePositive(s)
	return err
}

// ValidateBalance checks a user-typed opening balance, which may be zero.
func ValidateBalance(s string) error {
	d, err := money.Parse(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return apperr.Validation("balance can't be negative")
	}
	return nil
}

// ResolvePage applies the paging defaults: zero means "not given", negative
// values are rejected and limit is capped at MaxLimit.
func ResolvePage(page, limit int) (int, int, error) {
	if page < 0 {
		return 0, 0, apperr.Validation("page must be at least 1")
	}
	if limit < 0 {
		return 0, 0, apperr.Validation("limit must be at least 1")
	}
	if page == 0 {
		page = constants.DefaultPage
	}
	if limit == 0 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	return page, limit, nil
}

// PageOffset is the number of rows before the given page. Pages whose offset
// would not fit in an int are rejected.
func PageOffset(page, limit int) (int, error) {
	if page < 1 || limit < 1 {
		return 0, apperr.Validation("page and limit must be at least 1")
	}
	if page-1 > math.MaxInt/limit {
		return 0, apperr.Validation("page %d is out of range", page)
	}
	return (page - 1) * limit, nil
}
