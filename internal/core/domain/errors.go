package domain

import "errors"

var ErrEntryNotFound = errors.New("item not found")
var ErrValidation = errors.New("validation failed")
var ErrForbidden = errors.New("access forbidden")

var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokensDisabled = errors.New("token issuance is disabled")
