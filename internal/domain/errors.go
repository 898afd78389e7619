package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Adapters wrap these so the flows and the transport layers can branch with
// errors.Is without leaking infrastructure details.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrSourceUnavailable: the quote source could not produce a quote.
	ErrSourceUnavailable = errors.New("quote source unavailable")
	// ErrTimeout: no reply arrived within the wait window.
	ErrTimeout = errors.New("reply timeout")
	// ErrDeliveryRejected: the SMS provider rejected a publish or subscribe call.
	ErrDeliveryRejected = errors.New("delivery rejected")
	// ErrStoreUnavailable: persistence I/O failed.
	ErrStoreUnavailable = errors.New("store unavailable")
)
