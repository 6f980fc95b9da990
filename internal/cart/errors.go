package cart

import "errors"

// Error kinds surfaced by cart operations. Callers match them with
// errors.Is; wrapped messages carry the specifics.
var (
	// ErrNotAuthenticated means a server-cart operation was attempted
	// without a valid credential.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound means a gear item or cart line does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable means the server-side cart could not be
	// reached or failed internally.
	ErrRemoteUnavailable = errors.New("remote cart unavailable")

	// ErrInvalidQuantity means a non-positive quantity was given where it
	// cannot be read as a removal.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrEmptyCart means checkout was attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
)
