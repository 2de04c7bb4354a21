package payment

import "errors"

// Sentinel errors for the checkout and verification flow. Handlers map
// these to 4xx responses; anything else is a 5xx.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrAmountMismatch      = errors.New("payment amount does not match product price")
	ErrSignatureInvalid    = errors.New("invalid payment signature")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
