package store

import "errors"

var (
	// ErrWinNotFound means the referenced win id does not exist for the user.
	ErrWinNotFound = errors.New("win not found")
	// ErrClaimUnavailable means the win was already requested or claimed.
	ErrClaimUnavailable = errors.New("prize already requested or claimed")
	// ErrClaimNotRequested means a confirmation targeted a win that is not
	// waiting for one (never requested, or already handled by another admin).
	ErrClaimNotRequested = errors.New("claim not found or already processed")
	// ErrInvoiceExists means the invoice id is already pending for the user.
	ErrInvoiceExists = errors.New("invoice already pending")
)
