package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotAvailable    = errors.New("book instance is not available")
	ErrNotOnLoan       = errors.New("book instance is not on loan")
	ErrUnknownBorrower = errors.New("borrower is not a registered user")

	ErrRenewalInPast = errors.New("Invalid date - renewal in past")
	ErrRenewalTooFar = errors.New("Invalid date - renewal more than 4 weeks ahead")
)

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
