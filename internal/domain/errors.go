package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrListingNotFound  = errors.New("listing not found")
	ErrInvalidPrice     = errors.New("listing has invalid price")
	ErrSelfBuyForbidden = errors.New("cannot buy your own listing")
	ErrUnauthorized     = errors.New("no verified user identity")
	ErrOrderNotFound    = errors.New("order not found")
	ErrServer           = errors.New("order could not be stored")
)

type InvalidAddressError struct {
	Missing []string
}

func (e *InvalidAddressError) Error() string {
	return "invalid address: missing " + strings.Join(e.Missing, ", ")
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ErrorCode maps every failure kind to one stable machine-readable
// code. Human-readable messages are a presentation concern.
func ErrorCode(err error) string {
	var addrErr *InvalidAddressError
	var transErr *InvalidTransitionError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrListingNotFound):
		return "listing_not_found"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrSelfBuyForbidden):
		return "self_buy_forbidden"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"
	case errors.As(err, &addrErr):
		return "invalid_address"
	case errors.As(err, &transErr):
		return "invalid_transition"
	default:
		return "server_error"
	}
}
