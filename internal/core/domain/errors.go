package domain

import "errors"

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNoShippingAddress = errors.New("shipping address is not selected")
	ErrInvalidPrice      = errors.New("price bound must be a finite number")
)

// IsValidation reports whether err was raised by local input checks,
// before any request was sent.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidImageType) ||
		errors.Is(err, ErrImageTooLarge) ||
		errors.Is(err, ErrNoShippingAddress) ||
		errors.Is(err, ErrInvalidPrice)
}
