package domain

import "errors"

var ErrRecordNotFound = errors.New("record not found")
var ErrDuplicateUsername = errors.New("username already exists")
var ErrUnauthorized = errors.New("invalid or expired session token")

// ErrInvalidCredentials deliberately covers both the unknown-user and the
// wrong-password case so the response cannot be used to enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid username or password")

var ErrUnknownRecipient = errors.New("recipient account not found")
var ErrSelfTransfer = errors.New("recipient cannot be the sender")
var ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrTransferNotFound = errors.New("transfer not found")
var ErrForbidden = errors.New("caller is not a party to this transfer")
var ErrStoreUnavailable = errors.New("ledger store unavailable")
